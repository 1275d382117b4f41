// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// BioDiv is a tool to measure the biological diversity
// of a collection of samples.
package main

import (
	"github.com/js-arias/biodiv/cmd/biodiv/alpha"
	"github.com/js-arias/biodiv/cmd/biodiv/beta"
	"github.com/js-arias/biodiv/cmd/biodiv/metrics"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "biodiv <command> [<argument>...]",
	Short: "a tool to measure biological diversity",
}

func init() {
	app.Add(alpha.Command)
	app.Add(beta.Command)
	app.Add(metrics.Command)
}

func main() {
	app.Main()
}
