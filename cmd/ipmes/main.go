// Command ipmes streams a data graph against a pattern file and reports
// every full behavioral match it finds (spec section 6).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/patterngraph/ipmes/internal/engine"
	"github.com/patterngraph/ipmes/internal/procstats"
)

const defaultWindow = 1800.0

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ipmes", flag.ContinueOnError)
	var window float64
	var silent bool
	fs.Float64Var(&window, "window-size", defaultWindow, "match window size W, in the data graph's time units")
	fs.Float64Var(&window, "w", defaultWindow, "shorthand for -window-size")
	fs.BoolVar(&silent, "silent", false, "suppress per-match output, print only the final count")
	fs.BoolVar(&silent, "s", false, "shorthand for -silent")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ipmes [flags] pattern_file data_graph\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	patternFile, dataGraph := fs.Arg(0), fs.Arg(1)

	f, err := os.Open(dataGraph)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipmes: %v\n", err)
		return 1
	}
	defer f.Close()

	stats := procstats.Start()

	eng, err := engine.New(patternFile, engine.Config{Window: window, Silent: silent}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipmes: %v\n", err)
		return 1
	}
	defer eng.Close()

	if err := eng.Run(f); err != nil {
		fmt.Fprintf(os.Stderr, "ipmes: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Total number of matches: %d\n", eng.MatchCount())
	fmt.Fprintln(os.Stderr, stats.Summary())
	return 0
}
