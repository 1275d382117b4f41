// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package alpha implements a command to measure
// the alpha diversity of the samples of a count table.
package alpha

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/js-arias/biodiv/diversity"
	"github.com/js-arias/biodiv/table"
	"github.com/js-arias/biodiv/tree"
	"github.com/js-arias/command"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `alpha -m|--metric <name>
	[--tree <tree-file>] [--newick <name>] [--age <value>]
	[--unrooted] [--weighted]
	[-o|--output <file>] [<table-file>]`,
	Short: "measure the alpha diversity of each sample",
	Long: `
Command alpha reads a count table and reports the value of an alpha diversity
metric for each sample of the table.

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

For the phydiv metric, the flag --unrooted uses the unrooted form of the
metric, and the flag --weighted weights each branch by its relative
abundance.

The output is a tab-delimited file with a row per sample. By default the
output is printed in the standard output; use the flag --output, or -o, to
define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var metric string
var treeFile string
var newickName string
var rootAge float64
var unrooted bool
var weighted bool
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&metric, "metric", "", "")
	c.Flags().StringVar(&metric, "m", "", "")
	c.Flags().StringVar(&treeFile, "tree", "", "")
	c.Flags().StringVar(&newickName, "newick", "", "")
	c.Flags().Float64Var(&rootAge, "age", 0, "")
	c.Flags().BoolVar(&unrooted, "unrooted", false, "")
	c.Flags().BoolVar(&weighted, "weighted", false, "")
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
	if unrooted {
		opts = append(opts, diversity.Rooted(false))
	}
	if weighted {
		opts = append(opts, diversity.Weighted(true))
	}

	s, err := diversity.Alpha(diversity.Named(metric), tab, opts...)
	if err != nil {
		return err
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
	if err := writeSeries(w, s); err != nil {
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

func writeSeries(w io.Writer, s *diversity.Series) error {
	out := csv.NewWriter(w)
	out.Comma = '\t'
	out.UseCRLF = true

	if err := out.Write([]string{"sample", metric}); err != nil {
		return err
	}
	for i, id := range s.IDs() {
		row := []string{id, strconv.FormatFloat(s.Value(i), 'g', -1, 64)}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
