// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

// FaithPD returns Faith's phylogenetic diversity
// of a sample:
// the sum of the branch lengths
// spanned by the taxa
// with a positive count.
// An all-zero
// (or empty)
// sample has a diversity of zero.
func (ct *CountTree) FaithPD(counts []float64) (float64, error) {
	if err := ct.ValidCounts(counts); err != nil {
		return 0, err
	}
	if len(ct.nodes) == 0 {
		return 0, nil
	}

	cum := make([]float64, len(ct.nodes))
	ct.accumulate(counts, cum)

	var pd float64
	for i, n := range ct.nodes {
		if n.parent < 0 {
			continue
		}
		if cum[i] > 0 {
			pd += n.length
		}
	}
	return pd, nil
}

// PhyDiv returns the generalized phylogenetic diversity
// of a sample.
//
// With rooted true and weight false
// it is identical to Faith's phylogenetic diversity.
// With rooted false,
// branches connecting the root
// with the smallest clade
// that contains all observed taxa
// are left out of the sum,
// as in an unrooted tree
// those branches do not span the observed taxa.
// With weight true,
// each branch contributes its length
// multiplied by the relative abundance
// of the taxa descending from it.
func (ct *CountTree) PhyDiv(counts []float64, rooted, weight bool) (float64, error) {
	if err := ct.ValidCounts(counts); err != nil {
		return 0, err
	}
	if len(ct.nodes) == 0 {
		return 0, nil
	}

	cum := make([]float64, len(ct.nodes))
	ct.accumulate(counts, cum)

	total := cum[len(cum)-1]
	if total == 0 {
		return 0, nil
	}

	var pd float64
	for i, n := range ct.nodes {
		if n.parent < 0 {
			continue
		}
		if cum[i] <= 0 {
			continue
		}
		if !rooted && cum[i] >= total {
			continue
		}
		v := n.length
		if weight {
			v *= cum[i] / total
		}
		pd += v
	}
	return pd, nil
}
