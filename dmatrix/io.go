// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package dmatrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// TSV writes a distance matrix as a TSV file.
//
// The first field of the header row is "sample";
// the remaining fields are the sample identifiers.
// Each data row contains a sample identifier
// followed by the distances to each sample.
//
// Here is an example file:
//
//	sample	A	B	C
//	A	0	0.25	0.5
//	B	0.25	0	0.75
//	C	0.5	0.75	0
func (m *Matrix) TSV(w io.Writer) error {
	out := csv.NewWriter(w)
	out.Comma = '\t'
	out.UseCRLF = true

	header := append([]string{"sample"}, m.ids...)
	if err := out.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, id := range m.ids {
		row := make([]string, 0, len(m.ids)+1)
		row = append(row, id)
		for j := range m.ids {
			row = append(row, strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
