// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package table provides a count table,
// a matrix of abundance counts
// in which rows are samples
// and columns are features
// (usually taxa or OTUs).
package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNegative is the error
// produced by a table with negative counts.
var ErrNegative = errors.New("table cannot contain negative values")

// A Table is an immutable count table.
// Sample and feature identifiers are optional;
// if undefined,
// samples and features are addressed
// only by their position.
type Table struct {
	samples []string
	taxa    []string
	counts  [][]float64
}

// New creates a count table
// from a matrix of counts
// in which each row is a sample
// and each column a feature.
// Sample and feature identifiers can be nil.
func New(samples, taxa []string, counts [][]float64) (*Table, error) {
	cols := 0
	if len(counts) > 0 {
		cols = len(counts[0])
	}
	cp := make([][]float64, len(counts))
	for i, r := range counts {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d columns whereas %d columns are expected", i, len(r), cols)
		}
		for _, v := range r {
			if v < 0 {
				return nil, fmt.Errorf("%w: row %d", ErrNegative, i)
			}
		}
		cp[i] = slices.Clone(r)
	}

	if samples != nil && len(samples) != len(counts) {
		return nil, fmt.Errorf("Input table has %d samples whereas %d sample IDs were provided.", len(counts), len(samples))
	}
	if taxa != nil && len(taxa) != cols {
		return nil, fmt.Errorf("Input table has %d features whereas %d feature IDs were provided.", cols, len(taxa))
	}

	return &Table{
		samples: slices.Clone(samples),
		taxa:    slices.Clone(taxa),
		counts:  cp,
	}, nil
}

// FromVector creates a count table
// with a single sample
// from a vector of counts.
func FromVector(taxa []string, counts []float64) (*Table, error) {
	return New(nil, taxa, [][]float64{counts})
}

// Binarize returns a new table
// in which every positive count
// is replaced by one
// (i.e., a presence-absence transform).
func (t *Table) Binarize() *Table {
	counts := make([][]float64, len(t.counts))
	for i, r := range t.counts {
		nr := make([]float64, len(r))
		for j, v := range r {
			if v > 0 {
				nr[j] = 1
			}
		}
		counts[i] = nr
	}
	return &Table{
		samples: slices.Clone(t.samples),
		taxa:    slices.Clone(t.taxa),
		counts:  counts,
	}
}

// Cols returns the number of features in the table.
func (t *Table) Cols() int {
	if len(t.counts) == 0 {
		return 0
	}
	return len(t.counts[0])
}

// Matrix returns a copy of the count matrix.
func (t *Table) Matrix() [][]float64 {
	m := make([][]float64, len(t.counts))
	for i, r := range t.counts {
		m[i] = slices.Clone(r)
	}
	return m
}

// Row returns a copy of the counts
// of the sample at the indicated position.
func (t *Table) Row(i int) []float64 {
	if i < 0 || i >= len(t.counts) {
		return nil
	}
	return slices.Clone(t.counts[i])
}

// Rows returns the number of samples in the table.
func (t *Table) Rows() int { return len(t.counts) }

// Samples returns the sample identifiers,
// or nil if the table is unlabeled.
func (t *Table) Samples() []string { return slices.Clone(t.samples) }

// Taxa returns the feature identifiers,
// or nil if the table is unlabeled.
func (t *Table) Taxa() []string { return slices.Clone(t.taxa) }
