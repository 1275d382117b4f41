// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

import "math"

// UnweightedUniFrac returns the unweighted UniFrac distance
// between two samples:
// the fraction of the spanned branch length
// that is unique to one of the samples.
// The distance between two samples
// without any observed taxa
// is defined as zero.
func (ct *CountTree) UnweightedUniFrac(a, b []float64) (float64, error) {
	if err := ct.ValidCounts(a); err != nil {
		return 0, err
	}
	if err := ct.ValidCounts(b); err != nil {
		return 0, err
	}
	if len(ct.nodes) == 0 {
		return 0, nil
	}

	cumA := make([]float64, len(ct.nodes))
	cumB := make([]float64, len(ct.nodes))
	ct.accumulate(a, cumA)
	ct.accumulate(b, cumB)

	var unique, observed float64
	for i, n := range ct.nodes {
		if n.parent < 0 {
			continue
		}
		inA := cumA[i] > 0
		inB := cumB[i] > 0
		if inA || inB {
			observed += n.length
		}
		if inA != inB {
			unique += n.length
		}
	}
	if observed == 0 {
		return 0, nil
	}
	return unique / observed, nil
}

// WeightedUniFrac returns the weighted UniFrac distance
// between two samples:
// the sum over all branches
// of the branch length
// multiplied by the difference
// of the relative abundances
// of the taxa descending from the branch.
// If normalized is true,
// the distance is divided
// by the abundance-weighted distance
// of the tips to the root,
// so the result is bound to [0, 1].
// The distance between two samples
// without any observed taxa
// is defined as zero.
func (ct *CountTree) WeightedUniFrac(a, b []float64, normalized bool) (float64, error) {
	if err := ct.ValidCounts(a); err != nil {
		return 0, err
	}
	if err := ct.ValidCounts(b); err != nil {
		return 0, err
	}
	if len(ct.nodes) == 0 {
		return 0, nil
	}

	cumA := make([]float64, len(ct.nodes))
	cumB := make([]float64, len(ct.nodes))
	ct.accumulate(a, cumA)
	ct.accumulate(b, cumB)

	totA := cumA[len(cumA)-1]
	totB := cumB[len(cumB)-1]

	var dist float64
	for i, n := range ct.nodes {
		if n.parent < 0 {
			continue
		}
		var fa, fb float64
		if totA > 0 {
			fa = cumA[i] / totA
		}
		if totB > 0 {
			fb = cumB[i] / totB
		}
		dist += n.length * math.Abs(fa-fb)
	}
	if !normalized {
		return dist, nil
	}

	var norm float64
	for i, n := range ct.nodes {
		if n.taxon < 0 {
			continue
		}
		var fa, fb float64
		if totA > 0 {
			fa = cumA[i] / totA
		}
		if totB > 0 {
			fb = cumB[i] / totB
		}
		norm += (fa + fb) * ct.depth[i]
	}
	if norm == 0 {
		return 0, nil
	}
	return dist / norm, nil
}
