// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReadTSV reads a count table from a TSV file.
//
// The first field of the header row must be "sample";
// the remaining fields are the feature
// (taxon)
// identifiers.
// Each data row contains a sample identifier
// followed by the counts for each feature.
//
// Here is an example file:
//
//	sample	OTU1	OTU2	OTU3
//	A	1	3	0
//	B	0	2	0
//	C	0	0	6
func ReadTSV(r io.Reader) (*Table, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	if len(head) < 1 || head[0] != "sample" {
		return nil, fmt.Errorf("expecting field %q", "sample")
	}
	taxa := head[1:]

	var samples []string
	var counts [][]float64
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		samples = append(samples, row[0])
		r := make([]float64, len(taxa))
		for i, f := range row[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d, field %q: %v", ln, taxa[i], err)
			}
			r[i] = v
		}
		counts = append(counts, r)
	}

	t, err := New(samples, taxa, counts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TSV writes a count table as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"sample"}, t.taxa...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, r := range t.counts {
		row := make([]string, 0, len(r)+1)
		id := strconv.Itoa(i)
		if t.samples != nil {
			id = t.samples[i]
		}
		row = append(row, id)
		for _, v := range r {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
