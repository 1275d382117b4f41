// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"github.com/js-arias/timetree"
)

const millionYears = 1_000_000

// FromTimeTree creates a tree
// from a time-calibrated timetree.
// Branch lengths are taken
// as the time elapsed between a node and its parent,
// in million years.
func FromTimeTree(src *timetree.Tree) *Tree {
	t := New(src.Name())

	ids := map[int]int{src.Root(): 0}
	stack := []int{src.Root()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, c := range src.Children(n) {
			brLen := float64(src.Age(n)-src.Age(c)) / millionYears
			id, err := t.Add(ids[n], brLen, src.Taxon(c))
			if err != nil {
				// ages in a timetree are always consistent
				panic(err)
			}
			ids[c] = id
			stack = append(stack, c)
		}
	}
	return t
}
