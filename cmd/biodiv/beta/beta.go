// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package beta implements a command to measure
// the beta diversity between the samples of a count table.
package beta

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/biodiv/diversity"
	"github.com/js-arias/biodiv/dmatrix"
	"github.com/js-arias/biodiv/table"
	"github.com/js-arias/biodiv/tree"
	"github.com/js-arias/command"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `beta -m|--metric <name>
	[--tree <tree-file>] [--newick <name>] [--age <value>]
	[--normalized] [--exponent <value>]
	[--pairs <pairs-file>] [--procs <number>]
	[-o|--output <file>] [<table-file>]`,
	Short: "measure the beta diversity between samples",
	Long: `
Command beta reads a count table and reports the value of a beta diversity
metric for each pair of samples of the table, as a distance matrix.

The argument of the command is the name of the table file, a tab-delimited
file in which the first column contains the sample identifiers, and each of
the remaining columns contains the counts of a taxon, with the taxon name in
the header row. If no file is given the table will be read from the standard
input.

The flag --metric, or -m, is required and sets the metric to be computed. Use
the command metrics to see the list of known metric names.

Phylogenetic metrics require a tree, read from the file given with the flag
--tree. By default, the input is expected to be in the form of a
tab-delimited tree file. To import a newick tree (i.e., a tree in
parenthetical format), use the flag --newick with a name to be defined for
the tree, with branch lengths in million years. The flag --age sets the age
of the root, in million years, for a newick tree. If the tree file contains
multiple trees, only the first tree will be used. The taxa of the table
columns must be tips of the tree.

For the weighted_unifrac metric, the flag --normalized scales each distance
to the [0, 1] interval. For the minkowski metric, the flag --exponent sets
the exponent of the metric.

By default every pair of samples is computed. The flag --pairs restricts the
computation to the pairs read from a tab-delimited file with two sample
identifiers per row; unrequested pairs are reported as zero. Only the UniFrac
metrics can be restricted to a set of pairs.

By default all available processors will be used to compute the distances;
use the flag --procs to change the number of processors.

The output is a tab-delimited square matrix with a row and a column per
sample. By default the output is printed in the standard output; use the
flag --output, or -o, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var metric string
var treeFile string
var newickName string
var rootAge float64
var normalized bool
var exponent float64
var pairsFile string
var procs int
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&metric, "metric", "", "")
	c.Flags().StringVar(&metric, "m", "", "")
	c.Flags().StringVar(&treeFile, "tree", "", "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().Float64Var(&rootAge, "age", 0, "")
	c.Flags().BoolVar(&normalized, "normalized", false, "")
	c.Flags().Float64Var(&exponent, "exponent", 0, "")
	c.Flags().StringVar(&pairsFile, "pairs", "", "")
	c.Flags().IntVar(&procs, "procs", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if metric == "" {
		return c.UsageError("flag --metric must be defined")
	}

	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}
	tab, err := readTable(c.Stdin(), fn)
	if err != nil {
		return err
	}

	var opts []diversity.Option
	if treeFile != "" {
		t, err := readTree(treeFile, newickName, rootAge)
		if err != nil {
			return err
		}
		opts = append(opts, diversity.WithTree(t))
	}
	if normalized {
		opts = append(opts, diversity.Normalized(true))
	}
	if exponent != 0 {
		opts = append(opts, diversity.Exponent(exponent))
	}
	if procs > 0 {
		opts = append(opts, diversity.Procs(procs))
	}

	var dm *dmatrix.Matrix
	if pairsFile != "" {
		pairs, err := readPairs(pairsFile)
		if err != nil {
			return err
		}
		dm, err = diversity.PartialBeta(diversity.Named(metric), tab, nil, pairs, opts...)
		if err != nil {
			return err
		}
	} else {
		dm, err = diversity.Beta(diversity.Named(metric), tab, opts...)
		if err != nil {
			return err
		}
	}

	w := c.Stdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := dm.TSV(w); err != nil {
		return fmt.Errorf("when writing to %q: %v", outName(), err)
	}
	return nil
}

func outName() string {
	if output == "" {
		return "stdout"
	}
	return output
}

func readTable(r io.Reader, name string) (*table.Table, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	t, err := table.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return t, nil
}

const millionYears = 1_000_000

func readTree(name, newick string, age float64) (*tree.Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tc *timetree.Collection
	if newick != "" {
		tc, err = timetree.Newick(f, newick, int64(age*millionYears))
	} else {
		tc, err = timetree.ReadTSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	ls := tc.Names()
	if len(ls) == 0 {
		return nil, fmt.Errorf("while reading file %q: no trees in file", name)
	}
	return tree.FromTimeTree(tc.Tree(ls[0])), nil
}

func readPairs(name string) ([][2]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in := csv.NewReader(f)
	in.Comma = '\t'
	in.Comment = '#'
	in.FieldsPerRecord = 2

	var pairs [][2]string
	for {
		row, err := in.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := in.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("while reading file %q: on row %d: %v", name, ln, err)
		}
		pairs = append(pairs, [2]string{row[0], row[1]})
	}
	return pairs, nil
}
