// Package repl is an interactive shell over the resolve/split/reduce/sum/CSE
// pipeline: read a program, run it, print both emission surfaces, repeat.
//
// SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"closedform/internal/errors"
	"closedform/internal/ir"
	"closedform/internal/logging"
	"closedform/internal/parser"
)

const PROMPT = ">> "

// Start reads programs from in, one at a time, each terminated by a blank
// line, until in is exhausted. Each program is parsed, transformed with both
// optional passes on, and dumped to both the python and c++ surfaces.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		source, more := readUntilBlankLine(scanner)
		if !more {
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		runProgram(out, source)
	}
}

// readUntilBlankLine collects lines until a blank one or EOF. Its second
// return is false only when the scanner had nothing left to give at all,
// letting Start distinguish "end of input" from "empty program submitted".
func readUntilBlankLine(scanner *bufio.Scanner) (string, bool) {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func runProgram(out io.Writer, source string) {
	block, diags := parser.ParseString("repl", source)
	if len(diags) > 0 {
		reporter := errors.NewErrorReporter("repl", source)
		for _, d := range diags {
			fmt.Fprint(out, reporter.FormatError(d))
		}
		return
	}

	result, err := ir.Transform(block, ir.Options{
		MergeSiblingIncrements:       true,
		ConjoinSiblingIfs:            true,
		EvaluateCommonSubexpressions: true,
	}, logging.Discard())
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "transform failed: %s\n", err)
		return
	}

	fmt.Fprintln(out, "--- python surface ---")
	fmt.Fprintln(out, ir.DumpPython(result))
	fmt.Fprintln(out, "--- c++ surface ---")
	fmt.Fprintln(out, ir.DumpCPP(result, ir.CasingSnake, "long long"))
}
