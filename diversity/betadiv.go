// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package diversity

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/js-arias/biodiv/dmatrix"
	"github.com/js-arias/biodiv/pairdist"
	"github.com/js-arias/biodiv/table"
)

var (
	// ErrPairDup is the error
	// produced by a repeated
	// or a self matching pair
	// in a partial beta diversity computation.
	ErrPairDup = errors.New("A duplicate or a self-self pair was observed.")

	// ErrPairUnknown is the error
	// produced by a pair with a sample ID
	// that is not part of the declared samples.
	ErrPairUnknown = errors.New("id pairs are not a subset of the sample IDs")

	// ErrPartialMetric is the error
	// produced by a metric
	// that cannot be used
	// in a partial beta diversity computation.
	ErrPartialMetric = errors.New("partial beta diversity is only compatible with UniFrac metrics and custom pairwise functions")
)

// Beta computes a beta diversity metric
// for every pair of samples of a count table,
// returning a distance matrix
// indexed by sample ID.
//
// The known metric names are given by BetaMetrics.
// The metrics unweighted_unifrac and weighted_unifrac
// require the WithTree option
// and the taxa of the table columns
// (from the table itself,
// or with the WithTaxa option).
//
// By default all pairs are computed
// with the pairdist.PDist routine
// (phylogenetic metrics and explicit functions
// are evaluated pair by pair,
// maybe in parallel);
// the Pairwise option replaces that routine.
func Beta(m Metric, tab *table.Table, opts ...Option) (*dmatrix.Matrix, error) {
	o := buildOptions(opts)

	fn, ids, err := betaFunc(m, o, tab)
	if err != nil {
		return nil, err
	}

	if o.pairwise != nil {
		res, err := o.pairwise(tab.Matrix(), fn)
		if err != nil {
			return nil, err
		}
		return dmatrix.FromData(ids, res)
	}

	dm, err := dmatrix.New(ids)
	if err != nil {
		return nil, err
	}
	pairs := make([][2]int, 0, tab.Rows()*(tab.Rows()-1)/2)
	for i := range tab.Rows() {
		for j := i + 1; j < tab.Rows(); j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	vals, err := computePairs(tab, pairs, fn, o.procs)
	if err != nil {
		return nil, err
	}
	for k, p := range pairs {
		if err := dm.Set(p[0], p[1], vals[k]); err != nil {
			return nil, fmt.Errorf("pair %q-%q: %v", ids[p[0]], ids[p[1]], err)
		}
	}
	return dm, nil
}

// PartialBeta computes a beta diversity metric
// for an explicit set of sample pairs,
// returning a full size distance matrix
// in which only the requested pairs
// are populated.
// A distance of zero can mean
// both a computed zero distance
// and a pair that was not requested.
//
// Only the UniFrac metrics
// and explicit pairwise functions
// can be used;
// metrics computed with a bulk all-pairs routine
// are rejected.
// Each pair must join two different samples,
// and a pair cannot be requested twice,
// in any order.
func PartialBeta(m Metric, tab *table.Table, ids []string, pairs [][2]string, opts ...Option) (*dmatrix.Matrix, error) {
	o := buildOptions(opts)
	o.ids = ids
	if o.pairwise != nil {
		return nil, &ArgumentError{Metric: m.String(), Arg: "pairwise"}
	}
	if m.name != "" {
		info, ok := known[m.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m.name)
		}
		if !info.isBeta || !info.isPhylo {
			return nil, fmt.Errorf("%w: got %q", ErrPartialMetric, m.name)
		}
	}

	fn, ids, err := betaFunc(m, o, tab)
	if err != nil {
		return nil, err
	}
	dm, err := dmatrix.New(ids)
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	seen := make(map[[2]int]bool, len(pairs))
	ixPairs := make([][2]int, 0, len(pairs))
	for _, p := range pairs {
		i, ok := pos[p[0]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown sample %q", ErrPairUnknown, p[0])
		}
		j, ok := pos[p[1]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown sample %q", ErrPairUnknown, p[1])
		}
		if i > j {
			i, j = j, i
		}
		if i == j || seen[[2]int{i, j}] {
			return nil, fmt.Errorf("%w [pair %q-%q]", ErrPairDup, p[0], p[1])
		}
		seen[[2]int{i, j}] = true
		ixPairs = append(ixPairs, [2]int{i, j})
	}

	vals, err := computePairs(tab, ixPairs, fn, o.procs)
	if err != nil {
		return nil, err
	}
	for k, p := range ixPairs {
		if err := dm.Set(p[0], p[1], vals[k]); err != nil {
			return nil, fmt.Errorf("pair %q-%q: %v", ids[p[0]], ids[p[1]], err)
		}
	}
	return dm, nil
}

// BetaFunc validates a beta diversity metric
// and resolves it
// to a pairwise distance function,
// together with the sample IDs of the table.
func betaFunc(m Metric, o *options, tab *table.Table) (pairdist.Func, []string, error) {
	var info metricInfo
	if m.name != "" {
		var ok bool
		info, ok = known[m.name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m.name)
		}
		if !info.isBeta {
			return nil, nil, fmt.Errorf("%w: %q is not a beta diversity metric", ErrUnknownMetric, m.name)
		}
	} else if m.pairFn == nil {
		return nil, nil, fmt.Errorf("%w: expecting a pairwise distance function", ErrUnknownMetric)
	}
	if err := o.validArgs(m); err != nil {
		return nil, nil, err
	}

	ids, err := sampleIDs(o, tab)
	if err != nil {
		return nil, nil, err
	}
	taxa, taxaSet, err := taxaIDs(o, tab)
	if err != nil {
		return nil, nil, err
	}

	fn := m.pairFn
	if m.name != "" {
		switch m.name {
		case "braycurtis":
			fn = pairdist.BrayCurtis
		case "canberra":
			fn = pairdist.Canberra
		case "cityblock":
			fn = pairdist.Cityblock
		case "euclidean":
			fn = pairdist.Euclidean
		case "jaccard":
			fn = pairdist.Jaccard
		case "minkowski":
			fn = pairdist.Minkowski(o.exponent)
		case "unweighted_unifrac", "weighted_unifrac":
			ct, err := countTree(m, o, taxa, taxaSet)
			if err != nil {
				return nil, nil, err
			}
			if m.name == "unweighted_unifrac" {
				fn = ct.UnweightedUniFrac
			} else {
				normalized := o.normalized
				fn = func(a, b []float64) (float64, error) {
					return ct.WeightedUniFrac(a, b, normalized)
				}
			}
		}
	}
	return fn, ids, nil
}

// ComputePairs evaluates a pairwise distance function
// over a set of sample pairs,
// splitting the pairs among several processes.
// As each pair is independent,
// the result does not depend
// on the number of processes.
func computePairs(tab *table.Table, pairs [][2]int, fn pairdist.Func, procs int) ([]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	if procs <= 0 {
		procs = runtime.NumCPU()
	}
	if procs > len(pairs) {
		procs = len(pairs)
	}

	rows := tab.Matrix()
	vals := make([]float64, len(pairs))
	errs := make([]error, procs)

	chunk := (len(pairs) + procs - 1) / procs
	var wg sync.WaitGroup
	for p := range procs {
		start := p * chunk
		end := min(start+chunk, len(pairs))
		wg.Add(1)
		go func(p, start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				i, j := pairs[k][0], pairs[k][1]
				d, err := fn(rows[i], rows[j])
				if err != nil {
					errs[p] = err
					return
				}
				vals[k] = d
			}
		}(p, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}
