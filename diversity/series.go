// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package diversity

import (
	"math"
	"slices"
)

// A Series is an ordered collection
// of per sample values,
// one value per sample of a count table.
type Series struct {
	ids  []string
	vals []float64
}

// At returns the value for a sample ID,
// or NaN if the ID is not in the series.
func (s *Series) At(id string) float64 {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return math.NaN()
	}
	return s.vals[i]
}

// IDs returns the sample IDs of the series,
// in sample order.
func (s *Series) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of samples in the series.
func (s *Series) Len() int { return len(s.vals) }

// Value returns the value
// of the sample at the indicated position.
func (s *Series) Value(i int) float64 {
	if i < 0 || i >= len(s.vals) {
		return math.NaN()
	}
	return s.vals[i]
}

// Values returns all values of the series,
// in sample order.
func (s *Series) Values() []float64 { return slices.Clone(s.vals) }
