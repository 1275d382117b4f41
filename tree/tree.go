// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree provides a rooted phylogenetic tree
// with branch lengths,
// stored as an arena of nodes
// addressed by index.
package tree

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// A Tree is a rooted phylogenetic tree.
// The root is always the node with ID 0.
// Branch lengths are the length of the edge
// between a node and its parent;
// an undefined length is stored as NaN.
//
// A Tree is not safe for concurrent modification,
// but any number of readers can use it at the same time.
type Tree struct {
	name  string
	nodes []node
	taxa  map[string][]int
}

type node struct {
	parent   int
	children []int
	length   float64
	taxon    string
}

// New creates a new tree with the given name
// containing only the root node.
func New(name string) *Tree {
	return &Tree{
		name: name,
		nodes: []node{
			{parent: -1, length: math.NaN()},
		},
		taxa: make(map[string][]int),
	}
}

// Add adds a new node as the last child
// of the indicated parent node,
// with the length of the branch
// that connects the node with its parent
// (use NaN for an undefined length),
// and a taxon name
// (used only if the node is a terminal).
// It returns the ID of the added node.
func (t *Tree) Add(parent int, length float64, taxon string) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return -1, fmt.Errorf("tree %q: invalid parent node %d", t.name, parent)
	}
	if length < 0 {
		return -1, fmt.Errorf("tree %q: negative branch length %g", t.name, length)
	}

	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		parent: parent,
		length: length,
		taxon:  taxon,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	if taxon != "" {
		t.taxa[taxon] = append(t.taxa[taxon], id)
	}
	return id, nil
}

// Children returns the IDs of the children
// of the indicated node.
func (t *Tree) Children(id int) []int {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// IsRoot returns true if the indicated node
// is the root of the tree.
func (t *Tree) IsRoot(id int) bool { return id == 0 }

// IsTerm returns true if the indicated node
// is a terminal (i.e., a tip) of the tree.
func (t *Tree) IsTerm(id int) bool {
	if id < 0 || id >= len(t.nodes) {
		return false
	}
	return len(t.nodes[id].children) == 0
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Length returns the branch length of the indicated node,
// and false if the length is undefined
// (the root never has a branch length).
func (t *Tree) Length(id int) (float64, bool) {
	if id <= 0 || id >= len(t.nodes) {
		return 0, false
	}
	v := t.nodes[id].length
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Name returns the name of the tree.
func (t *Tree) Name() string { return t.name }

// Nodes returns the IDs of all nodes in the tree.
func (t *Tree) Nodes() []int {
	ids := make([]int, len(t.nodes))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Parent returns the ID of the parent
// of the indicated node,
// or -1 for the root.
func (t *Tree) Parent(id int) int {
	if id <= 0 || id >= len(t.nodes) {
		return -1
	}
	return t.nodes[id].parent
}

// Root returns the ID of the root node.
func (t *Tree) Root() int { return 0 }

// Taxon returns the taxon name of the indicated node.
func (t *Tree) Taxon(id int) string {
	if id < 0 || id >= len(t.nodes) {
		return ""
	}
	return t.nodes[id].taxon
}

// Terms returns the taxon names
// of all terminals in the tree,
// sorted alphabetically.
// A name shared by several tips
// is reported only once.
func (t *Tree) Terms() []string {
	seen := make(map[string]bool)
	var terms []string
	for i, n := range t.nodes {
		if len(n.children) > 0 || n.taxon == "" {
			continue
		}
		if seen[n.taxon] {
			continue
		}
		seen[n.taxon] = true
		terms = append(terms, t.nodes[i].taxon)
	}
	slices.Sort(terms)
	return terms
}

// TipsOf returns the IDs of the terminal nodes
// with the given taxon name.
func (t *Tree) TipsOf(taxon string) []int {
	var tips []int
	for _, id := range t.taxa[taxon] {
		if len(t.nodes[id].children) == 0 {
			tips = append(tips, id)
		}
	}
	return tips
}

// A DuplicateNodeError is the error
// produced when a taxon of interest
// matches multiple tips in a tree.
type DuplicateNodeError struct {
	Label string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicated tip name %q found in tree", e.Label)
}

// A MissingNodeError is the error
// produced when one or more taxa of interest
// are not tips of a tree.
// Taxa stores the unmatched taxa.
type MissingNodeError struct {
	Taxa []string
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("%d taxa are not present as tip names in the tree.", len(e.Taxa))
}

// IsStructural returns true if the error
// is an structural tree error,
// that is a duplicate or a missing node error.
func IsStructural(err error) bool {
	var d *DuplicateNodeError
	var m *MissingNodeError
	return errors.As(err, &d) || errors.As(err, &m)
}
