// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package metrics implements a command to print
// the list of known diversity metrics.
package metrics

import (
	"fmt"

	"github.com/js-arias/biodiv/diversity"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "metrics",
	Short: "print a list of the known diversity metrics",
	Long: `
Command metrics prints the names of the known alpha and beta diversity
metrics in the standard output. The names are the ones accepted by the
flag --metric of the commands alpha and beta.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	fmt.Fprintf(c.Stdout(), "Alpha diversity metrics:\n")
	for _, m := range diversity.AlphaMetrics() {
		fmt.Fprintf(c.Stdout(), "\t%s\n", m)
	}

	fmt.Fprintf(c.Stdout(), "Beta diversity metrics:\n")
	for _, m := range diversity.BetaMetrics() {
		fmt.Fprintf(c.Stdout(), "\t%s\n", m)
	}
	return nil
}
