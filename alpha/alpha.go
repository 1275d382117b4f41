// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package alpha provides alpha diversity metrics:
// summary statistics of the taxon abundances
// of a single sample.
package alpha

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNegCounts is the error
// produced by a counts vector
// with negative values.
var ErrNegCounts = errors.New("counts cannot contain negative values")

// A Func is an alpha diversity metric
// over a vector of taxon counts.
type Func func(counts []float64) (float64, error)

func valid(counts []float64) error {
	for _, v := range counts {
		if v < 0 {
			return ErrNegCounts
		}
	}
	return nil
}

// Sobs returns the number of observed taxa:
// the taxa with a positive count.
func Sobs(counts []float64) (float64, error) {
	if err := valid(counts); err != nil {
		return 0, err
	}
	var n float64
	for _, v := range counts {
		if v > 0 {
			n++
		}
	}
	return n, nil
}

// Shannon returns the Shannon diversity index
// (entropy in nats)
// of a sample.
// An empty sample has an index of zero.
func Shannon(counts []float64) (float64, error) {
	if err := valid(counts); err != nil {
		return 0, err
	}
	total := floats.Sum(counts)
	if total == 0 {
		return 0, nil
	}
	p := make([]float64, len(counts))
	for i, v := range counts {
		p[i] = v / total
	}
	return stat.Entropy(p), nil
}

// Simpson returns the Simpson diversity index
// of a sample:
// the probability that two random individuals
// belong to different taxa.
// An empty sample has an index of zero.
func Simpson(counts []float64) (float64, error) {
	if err := valid(counts); err != nil {
		return 0, err
	}
	total := floats.Sum(counts)
	if total == 0 {
		return 0, nil
	}
	var d float64
	for _, v := range counts {
		p := v / total
		d += p * p
	}
	return 1 - d, nil
}

// Pielou returns Pielou's evenness index
// of a sample:
// the Shannon index
// divided by its maximum possible value.
// A sample with less than two observed taxa
// has an evenness of zero.
func Pielou(counts []float64) (float64, error) {
	sobs, err := Sobs(counts)
	if err != nil {
		return 0, err
	}
	if sobs < 2 {
		return 0, nil
	}
	h, err := Shannon(counts)
	if err != nil {
		return 0, err
	}
	return h / math.Log(sobs), nil
}

// Chao1 returns the bias-corrected Chao1 richness estimator
// of a sample,
// based on the number of singleton and doubleton taxa.
func Chao1(counts []float64) (float64, error) {
	sobs, err := Sobs(counts)
	if err != nil {
		return 0, err
	}
	var f1, f2 float64
	for _, v := range counts {
		switch v {
		case 1:
			f1++
		case 2:
			f2++
		}
	}
	return sobs + f1*(f1-1)/(2*(f2+1)), nil
}
