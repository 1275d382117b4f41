// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package diversity

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/js-arias/biodiv/alpha"
	"github.com/js-arias/biodiv/phylo"
	"github.com/js-arias/biodiv/table"
)

// Alpha computes an alpha diversity metric
// for every sample of a count table,
// returning one value per sample
// in table order.
//
// The known metric names are given by AlphaMetrics.
// The metrics faith_pd and phydiv
// require the WithTree option
// and the taxa of the table columns
// (from the table itself,
// or with the WithTaxa option).
func Alpha(m Metric, tab *table.Table, opts ...Option) (*Series, error) {
	o := buildOptions(opts)
	if o.pairwise != nil {
		return nil, &ArgumentError{Metric: m.String(), Arg: "pairwise"}
	}

	var info metricInfo
	if m.name != "" {
		var ok bool
		info, ok = known[m.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m.name)
		}
		if !info.isAlpha {
			return nil, fmt.Errorf("%w: %q is not an alpha diversity metric", ErrUnknownMetric, m.name)
		}
	} else if m.alphaFn == nil {
		return nil, fmt.Errorf("%w: expecting an alpha diversity function", ErrUnknownMetric)
	}
	if err := o.validArgs(m); err != nil {
		return nil, err
	}

	ids, err := sampleIDs(o, tab)
	if err != nil {
		return nil, err
	}
	taxa, taxaSet, err := taxaIDs(o, tab)
	if err != nil {
		return nil, err
	}

	fn := m.alphaFn
	if m.name != "" {
		switch m.name {
		case "sobs":
			fn = alpha.Sobs
		case "shannon":
			fn = alpha.Shannon
		case "simpson":
			fn = alpha.Simpson
		case "pielou":
			fn = alpha.Pielou
		case "chao1":
			fn = alpha.Chao1
		case "faith_pd", "phydiv":
			ct, err := countTree(m, o, taxa, taxaSet)
			if err != nil {
				return nil, err
			}
			if m.name == "faith_pd" {
				fn = ct.FaithPD
			} else {
				rooted := o.rooted
				weight := o.weight
				fn = func(counts []float64) (float64, error) {
					return ct.PhyDiv(counts, rooted, weight)
				}
			}
		}
	}

	s := &Series{
		ids:  slices.Clone(ids),
		vals: make([]float64, tab.Rows()),
	}
	for i := range tab.Rows() {
		v, err := fn(tab.Row(i))
		if err != nil {
			return nil, err
		}
		s.vals[i] = v
	}
	return s, nil
}

// SampleIDs resolves the sample identifiers
// of a computation:
// the WithIDs option,
// the table identifiers,
// or the sample positions.
func sampleIDs(o *options, tab *table.Table) ([]string, error) {
	ids := o.ids
	if ids == nil {
		ids = tab.Samples()
	} else if len(ids) != tab.Rows() {
		return nil, fmt.Errorf("Input table has %d samples whereas %d sample IDs were provided.", tab.Rows(), len(ids))
	}
	if ids == nil {
		ids = make([]string, tab.Rows())
		for i := range ids {
			ids[i] = strconv.Itoa(i)
		}
	}
	return ids, nil
}

// TaxaIDs resolves the taxa
// that identify the table columns:
// the WithTaxa option,
// or the table identifiers.
// TaxaSet is true if the taxa are defined,
// even as an explicit empty list.
func taxaIDs(o *options, tab *table.Table) (taxa []string, taxaSet bool, err error) {
	if slices.Contains(o.set, "taxa") {
		if len(o.taxa) != tab.Cols() {
			return nil, false, fmt.Errorf("Input table has %d features whereas %d feature IDs were provided.", tab.Cols(), len(o.taxa))
		}
		return o.taxa, true, nil
	}
	taxa = tab.Taxa()
	return taxa, taxa != nil, nil
}

// CountTree builds the traversal structure
// for a phylogenetic metric,
// checking that both the tree and the taxa
// are defined.
func countTree(m Metric, o *options, taxa []string, taxaSet bool) (*phylo.CountTree, error) {
	if o.tree == nil {
		return nil, fmt.Errorf("metric %q: %w", m.String(), ErrMissingTree)
	}
	if !taxaSet {
		return nil, fmt.Errorf("metric %q: %w", m.String(), ErrMissingTaxa)
	}
	return phylo.New(o.tree, taxa)
}
