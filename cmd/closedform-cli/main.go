// Command closedform-cli parses a loop program, runs it through the
// resolve/split/reduce/sum/CSE pipeline, and prints both emission
// surfaces.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/segmentio/ksuid"

	"closedform/internal/errors"
	"closedform/internal/ir"
	"closedform/internal/logging"
	"closedform/internal/parser"
	"closedform/options"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: closedform-cli <file.cf> [policy.yaml]")
		os.Exit(1)
	}
	path := os.Args[1]

	stdout := colorable.NewColorableStdout()
	color.Output = stdout
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	runID := ksuid.New().String()

	opts := options.Options{
		MergeSiblingIncrementStatements: true,
		EvaluateCommonSubexpressions:    true,
	}
	if len(os.Args) > 2 {
		loaded, err := options.Load(os.Args[2])
		if err != nil {
			color.Red("failed to load policy profile: %s", err)
			os.Exit(1)
		}
		opts = loaded
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	block, diags := parser.ParseString(path, string(source))
	if len(diags) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		for _, d := range diags {
			d.Notes = append(d.Notes, "run "+runID)
			fmt.Fprint(stdout, reporter.FormatError(d))
		}
		os.Exit(1)
	}

	log := logging.Discard()
	if opts.Verbose {
		log = logging.New("closedform-cli")
	}

	result, err := ir.Transform(block, opts.ToIR(), log)
	if err != nil {
		color.Red("transform failed (run %s): %s", runID, err)
		os.Exit(1)
	}

	fmt.Fprintln(stdout, "--- python surface ---")
	fmt.Fprintln(stdout, ir.DumpPython(result))

	fmt.Fprintln(stdout, "--- c++ surface ---")
	fmt.Fprintln(stdout, ir.DumpCPP(result, ir.CasingSnake, "long long"))

	color.Green("transformed %s (run %s)", path, runID)
}
