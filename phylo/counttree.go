// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phylo implements phylogenetic diversity measurements
// over a count table
// and a rooted tree with branch lengths:
// Faith's phylogenetic diversity
// and its generalization,
// and the UniFrac family of pairwise distances.
package phylo

import (
	"errors"
	"fmt"

	"github.com/js-arias/biodiv/tree"
)

var (
	// ErrUnrooted is the error
	// produced by a tree that is not rooted,
	// or that looks like an unrooted tree.
	ErrUnrooted = errors.New("tree must be rooted")

	// ErrNoLength is the error
	// produced by a tree in which one or more nodes
	// have an undefined branch length.
	ErrNoLength = errors.New("all non-root nodes in the tree must have a branch length")

	// ErrCountsLen is the error
	// produced by a counts vector
	// with a size different from the taxa list.
	ErrCountsLen = errors.New("counts and taxa vectors must be equal length")

	// ErrNegCounts is the error
	// produced by a counts vector
	// with negative values.
	ErrNegCounts = errors.New("counts cannot contain negative values")
)

// A CountTree is a traversal-ready form
// of the minimal subtree of a rooted tree
// that spans a set of taxa of interest.
//
// Nodes are stored so that every node
// appears before its parent,
// so a single forward loop accumulates abundances
// from the tips to the root.
// A CountTree is immutable once built
// and can be shared by any number
// of concurrent computations.
type CountTree struct {
	nodes []cnode
	depth []float64
	nTaxa int
}

type cnode struct {
	// index of the parent in nodes,
	// always greater than the node's own index,
	// or -1 for the root
	parent int

	// branch length to the parent
	length float64

	// column of the taxon in the counts vector
	// for selected tips,
	// or -1
	taxon int
}

// New validates a rooted tree
// against a list of taxa of interest
// and builds the count tree for that taxa.
//
// The tree must be rooted:
// a root with less than two children,
// or with exactly three children
// (the usual form of an unrooted newick tree),
// is rejected.
// Every taxon must match exactly one tip;
// a taxon matching several tips
// produces a tree.DuplicateNodeError,
// and taxa without a tip
// produce a tree.MissingNodeError.
// All nodes except the root
// must have a defined branch length.
func New(t *tree.Tree, taxa []string) (*CountTree, error) {
	root := t.Root()
	if nc := len(t.Children(root)); nc < 2 {
		return nil, fmt.Errorf("%w: root has %d children", ErrUnrooted, nc)
	} else if nc == 3 {
		return nil, fmt.Errorf("%w: root has 3 children (an unrooted tree?)", ErrUnrooted)
	}

	seen := make(map[string]bool, len(taxa))
	for _, tax := range taxa {
		if seen[tax] {
			return nil, fmt.Errorf("taxa contain a duplicated identifier: %q", tax)
		}
		seen[tax] = true
	}

	for _, tax := range taxa {
		if len(t.TipsOf(tax)) > 1 {
			return nil, &tree.DuplicateNodeError{Label: tax}
		}
	}
	var missing []string
	for _, tax := range taxa {
		if len(t.TipsOf(tax)) == 0 {
			missing = append(missing, tax)
		}
	}
	if len(missing) > 0 {
		return nil, &tree.MissingNodeError{Taxa: missing}
	}

	for _, id := range t.Nodes() {
		if t.IsRoot(id) {
			continue
		}
		if _, ok := t.Length(id); !ok {
			return nil, fmt.Errorf("%w: node %d", ErrNoLength, id)
		}
	}

	ct := &CountTree{nTaxa: len(taxa)}
	if len(taxa) == 0 {
		return ct, nil
	}

	// tips of interest and their ancestors
	inSubtree := make(map[int]bool)
	column := make(map[int]int, len(taxa))
	for i, tax := range taxa {
		tip := t.TipsOf(tax)[0]
		column[tip] = i
		for id := tip; id != -1; id = t.Parent(id) {
			if inSubtree[id] {
				break
			}
			inSubtree[id] = true
		}
	}

	// a reversed pre-order puts every node
	// before its parent
	order := make([]int, 0, len(inSubtree))
	stack := []int{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		for _, c := range t.Children(id) {
			if inSubtree[c] {
				stack = append(stack, c)
			}
		}
	}

	slot := make(map[int]int, len(order))
	for i, j := 0, len(order)-1; i < len(order); i, j = i+1, j-1 {
		slot[order[j]] = i
	}
	ct.nodes = make([]cnode, len(order))
	ct.depth = make([]float64, len(order))
	for _, id := range order {
		i := slot[id]

		n := cnode{parent: -1, taxon: -1}
		if c, ok := column[id]; ok {
			n.taxon = c
		}
		if !t.IsRoot(id) {
			n.length, _ = t.Length(id)
			n.parent = slot[t.Parent(id)]
		}
		ct.nodes[i] = n
	}
	// distance from each node to the root,
	// walking from the root down
	for i := len(ct.nodes) - 1; i >= 0; i-- {
		n := ct.nodes[i]
		if n.parent < 0 {
			continue
		}
		ct.depth[i] = ct.depth[n.parent] + n.length
	}
	return ct, nil
}

// Len returns the number of nodes
// in the minimal subtree.
func (ct *CountTree) Len() int { return len(ct.nodes) }

// Taxa returns the number of taxa of interest.
func (ct *CountTree) Taxa() int { return ct.nTaxa }

// ValidCounts checks that a counts vector
// can be used with the count tree.
func (ct *CountTree) ValidCounts(counts []float64) error {
	if len(counts) != ct.nTaxa {
		return fmt.Errorf("%w: %d counts, %d taxa", ErrCountsLen, len(counts), ct.nTaxa)
	}
	for _, v := range counts {
		if v < 0 {
			return ErrNegCounts
		}
	}
	return nil
}

// Accumulate fills cum
// with the cumulative abundance of each node:
// the sum of the abundances of its children
// plus its own count,
// if the node is a selected tip.
// The cumulative abundance of the root
// is the sum of the whole counts vector.
func (ct *CountTree) accumulate(counts, cum []float64) {
	for i := range cum {
		cum[i] = 0
	}
	for i, n := range ct.nodes {
		if n.taxon >= 0 {
			cum[i] += counts[n.taxon]
		}
		if n.parent >= 0 {
			cum[n.parent] += cum[i]
		}
	}
}
