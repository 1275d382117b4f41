// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dmatrix provides a distance matrix,
// a symmetric matrix with a zero diagonal
// in which rows and columns
// are identified by sample IDs.
package dmatrix

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrIDs is the error
	// produced by an empty or duplicated sample ID.
	ErrIDs = errors.New("sample IDs must be unique")

	// ErrNotSym is the error
	// produced by a non-symmetric data matrix.
	ErrNotSym = errors.New("data matrix must be symmetric")

	// ErrDiagonal is the error
	// produced by a nonzero value
	// in the matrix diagonal.
	ErrDiagonal = errors.New("matrix diagonal must be zero")

	// ErrNegDist is the error
	// produced by a negative distance.
	ErrNegDist = errors.New("distances cannot be negative")
)

// A Matrix is a distance matrix:
// square,
// symmetric,
// with a zero diagonal
// and nonnegative entries,
// indexed by sample ID.
type Matrix struct {
	ids []string
	pos map[string]int
	m   *mat.SymDense
}

// New creates a zero-filled distance matrix
// for the given sample IDs.
func New(ids []string) (*Matrix, error) {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty ID at position %d", ErrIDs, i)
		}
		if _, dup := pos[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrIDs, id)
		}
		pos[id] = i
	}

	m := &Matrix{
		ids: slices.Clone(ids),
		pos: pos,
	}
	if len(ids) > 0 {
		m.m = mat.NewSymDense(len(ids), nil)
	}
	return m, nil
}

// FromData creates a distance matrix
// from a square data matrix.
// The data must be exactly symmetric,
// with a zero diagonal
// and without negative values.
func FromData(ids []string, data [][]float64) (*Matrix, error) {
	m, err := New(ids)
	if err != nil {
		return nil, err
	}
	if len(data) != len(ids) {
		return nil, fmt.Errorf("data matrix has %d rows whereas %d sample IDs were provided", len(data), len(ids))
	}
	for i, r := range data {
		if len(r) != len(ids) {
			return nil, fmt.Errorf("row %d has %d columns whereas %d are expected", i, len(r), len(ids))
		}
		for j, v := range r {
			if v != data[j][i] {
				return nil, fmt.Errorf("%w: rows %d and %d", ErrNotSym, i, j)
			}
			if i == j && v != 0 {
				return nil, fmt.Errorf("%w: row %d", ErrDiagonal, i)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: rows %d and %d", ErrNegDist, i, j)
			}
			if i < j {
				m.m.SetSym(i, j, v)
			}
		}
	}
	return m, nil
}

// At returns the distance
// between the samples at positions i and j.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(m.ids) || j >= len(m.ids) {
		return math.NaN()
	}
	return m.m.At(i, j)
}

// AtID returns the distance
// between two samples by their IDs,
// or NaN if an ID is not in the matrix.
func (m *Matrix) AtID(a, b string) float64 {
	i, ok := m.pos[a]
	if !ok {
		return math.NaN()
	}
	j, ok := m.pos[b]
	if !ok {
		return math.NaN()
	}
	return m.m.At(i, j)
}

// Equal returns true if two matrices
// have the same sample IDs
// in the same order,
// and every distance is equal
// within the given tolerance
// (use zero for exact equality).
func (m *Matrix) Equal(o *Matrix, tol float64) bool {
	if !slices.Equal(m.ids, o.ids) {
		return false
	}
	if len(m.ids) == 0 {
		return true
	}
	return mat.EqualApprox(m.m, o.m, tol)
}

// IDs returns the sample IDs of the matrix.
func (m *Matrix) IDs() []string { return slices.Clone(m.ids) }

// Index returns the position of a sample ID
// in the matrix,
// or -1 if the ID is not in the matrix.
func (m *Matrix) Index(id string) int {
	i, ok := m.pos[id]
	if !ok {
		return -1
	}
	return i
}

// Len returns the number of samples in the matrix.
func (m *Matrix) Len() int { return len(m.ids) }

// Set sets the distance
// between the samples at positions i and j,
// keeping the matrix symmetric.
func (m *Matrix) Set(i, j int, v float64) error {
	if i < 0 || j < 0 || i >= len(m.ids) || j >= len(m.ids) {
		return fmt.Errorf("position %d-%d out of range", i, j)
	}
	if i == j {
		if v != 0 {
			return fmt.Errorf("%w: position %d", ErrDiagonal, i)
		}
		return nil
	}
	if v < 0 {
		return fmt.Errorf("%w: position %d-%d", ErrNegDist, i, j)
	}
	m.m.SetSym(i, j, v)
	return nil
}

// Data returns a copy of the distances
// as a full square matrix,
// with rows and columns
// in sample ID order.
func (m *Matrix) Data() [][]float64 {
	data := make([][]float64, len(m.ids))
	for i := range m.ids {
		r := make([]float64, len(m.ids))
		for j := range m.ids {
			r[j] = m.m.At(i, j)
		}
		data[i] = r
	}
	return data
}
