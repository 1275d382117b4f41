// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/biodiv/tree"
)

// newTree returns the tree
// "((O1:0.25,O2:0.50):0.25,O3:0.75)root;".
func newTree(t testing.TB) *tree.Tree {
	t.Helper()

	tr := tree.New("unifrac")
	in, err := tr.Add(tr.Root(), 0.25, "")
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	for _, term := range []struct {
		parent int
		brLen  float64
		taxon  string
	}{
		{in, 0.25, "O1"},
		{in, 0.50, "O2"},
		{tr.Root(), 0.75, "O3"},
	} {
		if _, err := tr.Add(term.parent, term.brLen, term.taxon); err != nil {
			t.Fatalf("unable to add node %q: %v", term.taxon, err)
		}
	}
	return tr
}

func TestTree(t *testing.T) {
	tr := newTree(t)

	if g, w := tr.Name(), "unifrac"; g != w {
		t.Errorf("name: got %q, want %q", g, w)
	}
	if g, w := tr.Len(), 5; g != w {
		t.Errorf("nodes: got %d, want %d", g, w)
	}
	if g, w := tr.Terms(), []string{"O1", "O2", "O3"}; !reflect.DeepEqual(g, w) {
		t.Errorf("terms: got %v, want %v", g, w)
	}

	if g, w := tr.Children(tr.Root()), []int{1, 4}; !reflect.DeepEqual(g, w) {
		t.Errorf("children of root: got %v, want %v", g, w)
	}
	if !tr.IsRoot(tr.Root()) {
		t.Errorf("node %d should be the root", tr.Root())
	}
	if tr.IsTerm(1) {
		t.Errorf("node 1 should be internal")
	}
	if !tr.IsTerm(2) {
		t.Errorf("node 2 should be a terminal")
	}
	if g, w := tr.Taxon(3), "O2"; g != w {
		t.Errorf("taxon of node 3: got %q, want %q", g, w)
	}
	if g, w := tr.Parent(2), 1; g != w {
		t.Errorf("parent of node 2: got %d, want %d", g, w)
	}
	if g := tr.Parent(tr.Root()); g != -1 {
		t.Errorf("parent of root: got %d, want -1", g)
	}

	brLen := []float64{math.NaN(), 0.25, 0.25, 0.50, 0.75}
	for id := 1; id < tr.Len(); id++ {
		v, ok := tr.Length(id)
		if !ok {
			t.Errorf("node %d: undefined branch length", id)
			continue
		}
		if v != brLen[id] {
			t.Errorf("node %d: branch length %g, want %g", id, v, brLen[id])
		}
	}
	if _, ok := tr.Length(tr.Root()); ok {
		t.Errorf("root should not have a branch length")
	}

	if g, w := tr.TipsOf("O3"), []int{4}; !reflect.DeepEqual(g, w) {
		t.Errorf("tips of O3: got %v, want %v", g, w)
	}
	if g := tr.TipsOf("O42"); g != nil {
		t.Errorf("tips of O42: got %v, want nil", g)
	}
}

func TestTreeUndefinedLength(t *testing.T) {
	tr := tree.New("no lengths")
	id, err := tr.Add(tr.Root(), math.NaN(), "A")
	if err != nil {
		t.Fatalf("unable to add node: %v", err)
	}
	if _, ok := tr.Length(id); ok {
		t.Errorf("node %d: length should be undefined", id)
	}
}

func TestTreeDuplicatedTips(t *testing.T) {
	tr := tree.New("duplicates")
	for _, tax := range []string{"O1", "O2", "O1"} {
		if _, err := tr.Add(tr.Root(), 1, tax); err != nil {
			t.Fatalf("unable to add node %q: %v", tax, err)
		}
	}
	if g, w := tr.TipsOf("O1"), []int{1, 3}; !reflect.DeepEqual(g, w) {
		t.Errorf("tips of O1: got %v, want %v", g, w)
	}
	if g, w := tr.Terms(), []string{"O1", "O2"}; !reflect.DeepEqual(g, w) {
		t.Errorf("terms: got %v, want %v", g, w)
	}
}

func TestTreeInvalid(t *testing.T) {
	tr := tree.New("invalid")
	if _, err := tr.Add(42, 1, "A"); err == nil {
		t.Errorf("expecting error for an invalid parent")
	}
	if _, err := tr.Add(tr.Root(), -1, "A"); err == nil {
		t.Errorf("expecting error for a negative branch length")
	}
}

func TestStructuralErrors(t *testing.T) {
	var err error = &tree.DuplicateNodeError{Label: "O1"}
	if !tree.IsStructural(err) {
		t.Errorf("duplicate node: expecting an structural error")
	}
	if g, w := err.Error(), `duplicated tip name "O1" found in tree`; g != w {
		t.Errorf("duplicate node: got %q, want %q", g, w)
	}

	err = &tree.MissingNodeError{Taxa: []string{"O1", "O42"}}
	if !tree.IsStructural(err) {
		t.Errorf("missing node: expecting an structural error")
	}
	if g, w := err.Error(), "2 taxa are not present as tip names in the tree."; g != w {
		t.Errorf("missing node: got %q, want %q", g, w)
	}
}
