// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package diversity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/biodiv/diversity"
	"github.com/js-arias/biodiv/dmatrix"
	"github.com/js-arias/biodiv/pairdist"
	"github.com/js-arias/biodiv/table"
	"github.com/js-arias/biodiv/tree"
)

// newBetaTree returns the tree
// "((O1:0.25,O2:0.50):0.25,O3:0.75)root;".
func newBetaTree(t testing.TB) *tree.Tree {
	t.Helper()

	tr := tree.New("beta")
	add := func(parent int, brLen float64, taxon string) int {
		id, err := tr.Add(parent, brLen, taxon)
		if err != nil {
			t.Fatalf("unable to add node %q: %v", taxon, err)
		}
		return id
	}
	in := add(tr.Root(), 0.25, "")
	add(in, 0.25, "O1")
	add(in, 0.50, "O2")
	add(tr.Root(), 0.75, "O3")
	return tr
}

func newBetaTable(t testing.TB) *table.Table {
	t.Helper()

	tab, err := table.New([]string{"A", "B", "C"}, []string{"O1", "O2"}, [][]float64{
		{1, 5},
		{2, 3},
		{0, 1},
	})
	if err != nil {
		t.Fatalf("unable to build table: %v", err)
	}
	return tab
}

// testMatrix compares a distance matrix
// against an expected full square matrix.
func testMatrix(t testing.TB, dm *dmatrix.Matrix, want [][]float64) {
	t.Helper()

	if g, w := dm.Len(), len(want); g != w {
		t.Fatalf("matrix size: got %d, want %d", g, w)
	}
	for i, r := range want {
		for j, w := range r {
			if g := dm.At(i, j); !equalFloat(g, w) {
				t.Errorf("distance [%d, %d]: got %g, want %g", i, j, g, w)
			}
		}
	}
}

func TestBetaEuclidean(t *testing.T) {
	dm, err := diversity.Beta(diversity.Named("euclidean"), newBetaTable(t))
	if err != nil {
		t.Fatalf("euclidean: %v", err)
	}
	testMatrix(t, dm, [][]float64{
		{0, math.Sqrt(5), math.Sqrt(17)},
		{math.Sqrt(5), 0, math.Sqrt(8)},
		{math.Sqrt(17), math.Sqrt(8), 0},
	})
	if g, w := dm.AtID("A", "C"), math.Sqrt(17); !equalFloat(g, w) {
		t.Errorf("distance A-C: got %g, want %g", g, w)
	}
}

func TestBetaBrayCurtis(t *testing.T) {
	dm, err := diversity.Beta(diversity.Named("braycurtis"), newBetaTable(t))
	if err != nil {
		t.Fatalf("braycurtis: %v", err)
	}
	testMatrix(t, dm, [][]float64{
		{0, 3.0 / 11, 5.0 / 7},
		{3.0 / 11, 0, 4.0 / 6},
		{5.0 / 7, 4.0 / 6, 0},
	})
}

func TestBetaUnweightedUniFrac(t *testing.T) {
	tab := newBetaTable(t)
	tr := newBetaTree(t)
	dm, err := diversity.Beta(diversity.Named("unweighted_unifrac"), tab, diversity.WithTree(tr))
	if err != nil {
		t.Fatalf("unweighted_unifrac: %v", err)
	}
	testMatrix(t, dm, [][]float64{
		{0, 0, 0.25},
		{0, 0, 0.25},
		{0.25, 0.25, 0},
	})

	// a qualitative metric
	// is not affected by the count magnitudes
	bdm, err := diversity.Beta(diversity.Named("unweighted_unifrac"), tab.Binarize(), diversity.WithTree(tr))
	if err != nil {
		t.Fatalf("unweighted_unifrac: %v", err)
	}
	if !dm.Equal(bdm, 0) {
		t.Errorf("presence-absence transform changed a qualitative metric")
	}
}

func TestBetaWeightedUniFrac(t *testing.T) {
	tab := newBetaTable(t)
	tr := newBetaTree(t)
	dm, err := diversity.Beta(diversity.Named("weighted_unifrac"), tab, diversity.WithTree(tr))
	if err != nil {
		t.Fatalf("weighted_unifrac: %v", err)
	}

	// expected values calculated by hand
	testMatrix(t, dm, [][]float64{
		{0, 0.175, 0.125},
		{0.175, 0, 0.3},
		{0.125, 0.3, 0},
	})

	// a quantitative metric
	// is affected by the count magnitudes
	bdm, err := diversity.Beta(diversity.Named("weighted_unifrac"), tab.Binarize(), diversity.WithTree(tr))
	if err != nil {
		t.Fatalf("weighted_unifrac: %v", err)
	}
	if dm.Equal(bdm, 0) {
		t.Errorf("presence-absence transform should change a quantitative metric")
	}
}

func TestBetaWeightedUniFracNormalized(t *testing.T) {
	dm, err := diversity.Beta(diversity.Named("weighted_unifrac"), newBetaTable(t),
		diversity.WithTree(newBetaTree(t)),
		diversity.Normalized(true))
	if err != nil {
		t.Fatalf("weighted_unifrac: %v", err)
	}
	dAB := 0.175 / ((1.0/6+0.4)*0.5 + (5.0/6+0.6)*0.75)
	dAC := 0.125 / ((1.0/6)*0.5 + (5.0/6+1)*0.75)
	dBC := 0.3 / (0.4*0.5 + 1.6*0.75)
	testMatrix(t, dm, [][]float64{
		{0, dAB, dAC},
		{dAB, 0, dBC},
		{dAC, dBC, 0},
	})
}

func TestBetaMinkowski(t *testing.T) {
	tab := newBetaTable(t)

	// exponent one is the city block distance
	mk, err := diversity.Beta(diversity.Named("minkowski"), tab, diversity.Exponent(1))
	if err != nil {
		t.Fatalf("minkowski: %v", err)
	}
	cb, err := diversity.Beta(diversity.Named("cityblock"), tab)
	if err != nil {
		t.Fatalf("cityblock: %v", err)
	}
	if !mk.Equal(cb, tolerance) {
		t.Errorf("minkowski with exponent 1 is not the city block distance")
	}

	// the default exponent is the euclidean distance
	mk, err = diversity.Beta(diversity.Named("minkowski"), tab)
	if err != nil {
		t.Fatalf("minkowski: %v", err)
	}
	eu, err := diversity.Beta(diversity.Named("euclidean"), tab)
	if err != nil {
		t.Fatalf("euclidean: %v", err)
	}
	if !mk.Equal(eu, tolerance) {
		t.Errorf("minkowski with the default exponent is not the euclidean distance")
	}

	// an exponent below one is invalid
	if _, err := diversity.Beta(diversity.Named("minkowski"), tab, diversity.Exponent(0.5)); err == nil {
		t.Errorf("expecting error for an exponent below one")
	}
}

func TestBetaCustom(t *testing.T) {
	tab := newBetaTable(t)
	opt, err := diversity.Beta(diversity.Named("jaccard"), tab)
	if err != nil {
		t.Fatalf("jaccard: %v", err)
	}
	cus, err := diversity.Beta(diversity.CustomPair(pairdist.Jaccard), tab)
	if err != nil {
		t.Fatalf("custom jaccard: %v", err)
	}
	if !opt.Equal(cus, 0) {
		t.Errorf("jaccard and its explicit function give different matrices")
	}

	// errors from an explicit function
	// are returned unchanged
	errFail := errors.New("fail on every pair")
	fail := func(a, b []float64) (float64, error) {
		return 0, errFail
	}
	if _, err := diversity.Beta(diversity.CustomPair(fail), tab); !errors.Is(err, errFail) {
		t.Errorf("custom error: got error %q, want %q", err, errFail)
	}
}

func TestBetaPairwise(t *testing.T) {
	fixed := func(data [][]float64, fn pairdist.Func) ([][]float64, error) {
		res := make([][]float64, len(data))
		for i := range res {
			res[i] = make([]float64, len(data))
			for j := range res[i] {
				if i != j {
					res[i][j] = 42
				}
			}
		}
		return res, nil
	}
	dm, err := diversity.Beta(diversity.Named("euclidean"), newBetaTable(t), diversity.Pairwise(fixed))
	if err != nil {
		t.Fatalf("euclidean: %v", err)
	}
	testMatrix(t, dm, [][]float64{
		{0, 42, 42},
		{42, 0, 42},
		{42, 42, 0},
	})
}

func TestBetaProcs(t *testing.T) {
	tab := newBetaTable(t)
	tr := newBetaTree(t)
	var prev *dmatrix.Matrix
	for _, p := range []int{1, 2, 7} {
		dm, err := diversity.Beta(diversity.Named("weighted_unifrac"), tab,
			diversity.WithTree(tr),
			diversity.Procs(p))
		if err != nil {
			t.Fatalf("weighted_unifrac [%d procs]: %v", p, err)
		}
		if prev != nil && !dm.Equal(prev, 0) {
			t.Errorf("results depend on the number of processes")
		}
		prev = dm
	}
}

func TestBetaUnknownMetric(t *testing.T) {
	tab := newBetaTable(t)
	if _, err := diversity.Beta(diversity.Named("not-a-metric"), tab); !errors.Is(err, diversity.ErrUnknownMetric) {
		t.Errorf("unknown metric: got error %q, want %q", err, diversity.ErrUnknownMetric)
	}

	// an alpha diversity metric
	// is not valid for beta diversity
	if _, err := diversity.Beta(diversity.Named("sobs"), tab); !errors.Is(err, diversity.ErrUnknownMetric) {
		t.Errorf("alpha metric: got error %q, want %q", err, diversity.ErrUnknownMetric)
	}
}

func TestBetaArgumentError(t *testing.T) {
	tab := newBetaTable(t)
	tests := map[string]struct {
		metric diversity.Metric
		opts   []diversity.Option
		arg    string
	}{
		"tree for a non-phylogenetic metric": {
			metric: diversity.Named("braycurtis"),
			opts:   []diversity.Option{diversity.WithTree(newBetaTree(t))},
			arg:    "tree",
		},
		"exponent for euclidean": {
			metric: diversity.Named("euclidean"),
			opts:   []diversity.Option{diversity.Exponent(3)},
			arg:    "exponent",
		},
		"normalized for unweighted_unifrac": {
			metric: diversity.Named("unweighted_unifrac"),
			opts: []diversity.Option{
				diversity.WithTree(newBetaTree(t)),
				diversity.Normalized(true),
			},
			arg: "normalized",
		},
	}
	for name, test := range tests {
		_, err := diversity.Beta(test.metric, tab, test.opts...)
		var argErr *diversity.ArgumentError
		if !errors.As(err, &argErr) {
			t.Errorf("%s: got error %q, want an argument error", name, err)
			continue
		}
		if argErr.Arg != test.arg {
			t.Errorf("%s: got argument %q, want %q", name, argErr.Arg, test.arg)
		}
	}
}

func TestBetaMissingPhylo(t *testing.T) {
	tab := newBetaTable(t)
	if _, err := diversity.Beta(diversity.Named("unweighted_unifrac"), tab); !errors.Is(err, diversity.ErrMissingTree) {
		t.Errorf("missing tree: got error %q, want %q", err, diversity.ErrMissingTree)
	}

	unlabeled, err := table.New(nil, nil, [][]float64{{1, 5}, {2, 3}})
	if err != nil {
		t.Fatalf("unable to build table: %v", err)
	}
	_, err = diversity.Beta(diversity.Named("unweighted_unifrac"), unlabeled, diversity.WithTree(newBetaTree(t)))
	if !errors.Is(err, diversity.ErrMissingTaxa) {
		t.Errorf("missing taxa: got error %q, want %q", err, diversity.ErrMissingTaxa)
	}
}

func TestBetaEmptyTable(t *testing.T) {
	tab, err := table.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("unable to build table: %v", err)
	}
	dm, err := diversity.Beta(diversity.Named("euclidean"), tab)
	if err != nil {
		t.Fatalf("euclidean: %v", err)
	}
	if g, w := dm.Len(), 0; g != w {
		t.Errorf("empty table: got %d samples, want %d", g, w)
	}
}

func TestBetaIDMismatch(t *testing.T) {
	_, err := diversity.Beta(diversity.Named("euclidean"), newBetaTable(t),
		diversity.WithIDs([]string{"a", "b"}))
	if err == nil {
		t.Fatalf("expecting error for a sample ID mismatch")
	}
	want := "Input table has 3 samples whereas 2 sample IDs were provided."
	if g := err.Error(); g != want {
		t.Errorf("sample ID mismatch: got %q, want %q", g, want)
	}
}

func TestBetaUnlabeledIDs(t *testing.T) {
	tab, err := table.New(nil, nil, [][]float64{{1, 5}, {2, 3}, {0, 1}})
	if err != nil {
		t.Fatalf("unable to build table: %v", err)
	}
	dm, err := diversity.Beta(diversity.Named("euclidean"), tab)
	if err != nil {
		t.Fatalf("euclidean: %v", err)
	}

	// samples are identified by position
	if g, w := dm.AtID("0", "2"), math.Sqrt(17); !equalFloat(g, w) {
		t.Errorf("distance 0-2: got %g, want %g", g, w)
	}
}
