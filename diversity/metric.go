// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package diversity computes diversity statistics
// over a count table:
// per sample values
// (alpha diversity)
// and pairwise distance matrices between samples
// (beta diversity).
//
// Metrics are identified by name,
// from a closed set of known metrics,
// or given as explicit functions.
// Phylogenetic metrics
// (faith_pd, phydiv, unweighted_unifrac, weighted_unifrac)
// require a rooted tree
// and the list of taxa
// that identify the table columns
// with the tree tips.
package diversity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/js-arias/biodiv/alpha"
	"github.com/js-arias/biodiv/pairdist"
	"github.com/js-arias/biodiv/tree"
)

var (
	// ErrUnknownMetric is the error
	// produced by an unrecognized metric name.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrMissingTree is the error
	// produced by a phylogenetic metric
	// called without a tree.
	ErrMissingTree = errors.New("a phylogenetic tree is required")

	// ErrMissingTaxa is the error
	// produced by a phylogenetic metric
	// called without the taxa list.
	ErrMissingTaxa = errors.New("taxa are required")
)

// An ArgumentError is the error
// produced by an argument
// that the indicated metric does not accept.
type ArgumentError struct {
	Metric string
	Arg    string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("metric %s does not accept argument %q", e.Metric, e.Arg)
}

// A Metric identifies a diversity metric:
// either one of the known metrics
// by its name,
// or an explicit function
// given by the caller.
type Metric struct {
	name    string
	alphaFn alpha.Func
	pairFn  pairdist.Func
}

// Named returns the metric
// with the given name.
// Use AlphaMetrics and BetaMetrics
// for the known metric names.
func Named(name string) Metric {
	return Metric{name: name}
}

// CustomAlpha returns a metric
// defined by an explicit alpha diversity function.
// The function is called once per sample
// and its errors are propagated unchanged.
// Any parameter of the function
// must be carried by the closure.
func CustomAlpha(fn alpha.Func) Metric {
	return Metric{alphaFn: fn}
}

// CustomPair returns a metric
// defined by an explicit pairwise distance function.
// The function is called once per sample pair
// and its errors are propagated unchanged.
// Any parameter of the function
// must be carried by the closure.
func CustomPair(fn pairdist.Func) Metric {
	return Metric{pairFn: fn}
}

func (m Metric) String() string {
	if m.name != "" {
		return m.name
	}
	return "custom function"
}

type metricInfo struct {
	isAlpha bool
	isBeta  bool
	isPhylo bool

	// metric level arguments
	// accepted by the metric
	args []string
}

var known = map[string]metricInfo{
	"sobs":    {isAlpha: true},
	"shannon": {isAlpha: true},
	"simpson": {isAlpha: true},
	"pielou":  {isAlpha: true},
	"chao1":   {isAlpha: true},
	"faith_pd": {
		isAlpha: true,
		isPhylo: true,
		args:    []string{"taxa", "tree"},
	},
	"phydiv": {
		isAlpha: true,
		isPhylo: true,
		args:    []string{"taxa", "tree", "rooted", "weight"},
	},

	"braycurtis": {isBeta: true},
	"canberra":   {isBeta: true},
	"cityblock":  {isBeta: true},
	"euclidean":  {isBeta: true},
	"jaccard":    {isBeta: true},
	"minkowski": {
		isBeta: true,
		args:   []string{"exponent"},
	},
	"unweighted_unifrac": {
		isBeta:  true,
		isPhylo: true,
		args:    []string{"taxa", "tree"},
	},
	"weighted_unifrac": {
		isBeta:  true,
		isPhylo: true,
		args:    []string{"taxa", "tree", "normalized"},
	},
}

// AlphaMetrics returns the names
// of the known alpha diversity metrics,
// sorted alphabetically.
func AlphaMetrics() []string {
	var names []string
	for n, i := range known {
		if i.isAlpha {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// BetaMetrics returns the names
// of the known beta diversity metrics,
// sorted alphabetically.
func BetaMetrics() []string {
	var names []string
	for n, i := range known {
		if i.isBeta {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// A PairwiseFunc computes the full matrix
// of pairwise distances
// between the rows of a count matrix,
// using the given pairwise metric function.
// It can be set with the Pairwise option
// to replace the default all-pairs routine.
type PairwiseFunc func(data [][]float64, fn pairdist.Func) ([][]float64, error)

type options struct {
	ids        []string
	taxa       []string
	tree       *tree.Tree
	rooted     bool
	weight     bool
	normalized bool
	exponent   float64
	pairwise   PairwiseFunc
	procs      int

	// metric level arguments
	// set by the caller
	set []string
}

// An Option configures a diversity computation.
// Options that parameterize a metric
// (WithTaxa, WithTree, Rooted, Weighted,
// Normalized, Exponent)
// are only accepted by the metrics
// that understand them;
// any other use
// is reported as an ArgumentError.
type Option func(*options)

// WithIDs sets the sample identifiers,
// overriding the identifiers of the table.
// The number of identifiers
// must be equal to the number of samples.
func WithIDs(ids []string) Option {
	return func(o *options) { o.ids = ids }
}

// WithTaxa sets the taxa
// that identify the table columns,
// overriding the feature identifiers of the table.
func WithTaxa(taxa []string) Option {
	return func(o *options) {
		o.taxa = taxa
		o.set = append(o.set, "taxa")
	}
}

// WithTree sets the rooted phylogenetic tree
// used by the phylogenetic metrics.
func WithTree(t *tree.Tree) Option {
	return func(o *options) {
		o.tree = t
		o.set = append(o.set, "tree")
	}
}

// Rooted indicates if the phydiv metric
// uses the rooted form of the tree
// (the default)
// or an unrooted interpretation.
func Rooted(v bool) Option {
	return func(o *options) {
		o.rooted = v
		o.set = append(o.set, "rooted")
	}
}

// Weighted indicates if the phydiv metric
// weights each branch
// by its relative abundance.
func Weighted(v bool) Option {
	return func(o *options) {
		o.weight = v
		o.set = append(o.set, "weight")
	}
}

// Normalized indicates if the weighted_unifrac metric
// is normalized to the [0, 1] interval.
func Normalized(v bool) Option {
	return func(o *options) {
		o.normalized = v
		o.set = append(o.set, "normalized")
	}
}

// Exponent sets the exponent
// of the minkowski metric.
func Exponent(p float64) Option {
	return func(o *options) {
		o.exponent = p
		o.set = append(o.set, "exponent")
	}
}

// Pairwise replaces the routine
// used to compute the full distance matrix
// in Beta.
func Pairwise(fn PairwiseFunc) Option {
	return func(o *options) { o.pairwise = fn }
}

// Procs sets the number of parallel processes
// used to compute pairwise distances.
// The default
// (zero)
// uses all available CPUs.
func Procs(n int) Option {
	return func(o *options) { o.procs = n }
}

func buildOptions(opts []Option) *options {
	o := &options{
		rooted:   true,
		exponent: 2,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// ValidArgs checks that every metric level argument
// set by the caller
// is accepted by the metric.
func (o *options) validArgs(m Metric) error {
	var args []string
	if m.name != "" {
		args = known[m.name].args
	}
	for _, s := range o.set {
		if !slices.Contains(args, s) {
			return &ArgumentError{Metric: m.String(), Arg: s}
		}
	}
	return nil
}
