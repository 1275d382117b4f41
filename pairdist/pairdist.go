// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pairdist provides pairwise distances
// between count vectors,
// and a routine to compute all pairwise distances
// of a count matrix.
package pairdist

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrVecLen is the error
// produced by vectors of unequal length.
var ErrVecLen = errors.New("count vectors must be equal length")

// A Func is a pairwise distance function
// between two count vectors
// of the same length.
type Func func(a, b []float64) (float64, error)

// BrayCurtis returns the Bray-Curtis dissimilarity
// between two count vectors.
// Two all-zero vectors have a dissimilarity of zero.
func BrayCurtis(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVecLen
	}
	var diff, sum float64
	for i := range a {
		diff += math.Abs(a[i] - b[i])
		sum += a[i] + b[i]
	}
	if sum == 0 {
		return 0, nil
	}
	return diff / sum, nil
}

// Canberra returns the Canberra distance
// between two count vectors.
func Canberra(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVecLen
	}
	var d float64
	for i := range a {
		den := math.Abs(a[i]) + math.Abs(b[i])
		if den == 0 {
			continue
		}
		d += math.Abs(a[i]-b[i]) / den
	}
	return d, nil
}

// Cityblock returns the Manhattan distance
// between two count vectors.
func Cityblock(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVecLen
	}
	return floats.Distance(a, b, 1), nil
}

// Euclidean returns the Euclidean distance
// between two count vectors.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVecLen
	}
	return floats.Distance(a, b, 2), nil
}

// Jaccard returns the Jaccard distance
// between two count vectors,
// using the counts as presence-absence data.
// Two all-zero vectors have a distance of zero.
func Jaccard(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVecLen
	}
	var union, diff float64
	for i := range a {
		inA := a[i] > 0
		inB := b[i] > 0
		if inA || inB {
			union++
		}
		if inA != inB {
			diff++
		}
	}
	if union == 0 {
		return 0, nil
	}
	return diff / union, nil
}

// Minkowski returns a pairwise distance function
// for the Minkowski distance
// with the given exponent
// (which must be at least one).
func Minkowski(p float64) Func {
	return func(a, b []float64) (float64, error) {
		if len(a) != len(b) {
			return 0, ErrVecLen
		}
		if p < 1 {
			return 0, fmt.Errorf("invalid minkowski exponent %g", p)
		}
		return floats.Distance(a, b, p), nil
	}
}

// PDist computes all pairwise distances
// between the rows of a count matrix,
// returning a symmetric matrix
// with a zero diagonal.
func PDist(data [][]float64, fn Func) ([][]float64, error) {
	m := make([][]float64, len(data))
	for i := range m {
		m[i] = make([]float64, len(data))
	}
	for i := range data {
		for j := i + 1; j < len(data); j++ {
			d, err := fn(data[i], data[j])
			if err != nil {
				return nil, fmt.Errorf("pair %d-%d: %w", i, j, err)
			}
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m, nil
}
