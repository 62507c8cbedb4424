// Command closedform demonstrates the resolve/split/reduce/sum/CSE pipeline
// end to end on a single built-in program: the nested for/if/max/inner-for
// example this pipeline's algebra was built to close into constant time.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"closedform/internal/errors"
	"closedform/internal/ir"
	"closedform/internal/logging"
	"closedform/internal/parser"
)

// demoProgram is the nested for/if/max/inner-for/constant-assignment program
// translated into this grammar's brace-and-semicolon syntax.
const demoProgram = `
for x in range(a + 1, b + 1) {
    if c < x {
        r += 2;
    }
    if c < x {
        r2 += 2 + x;
        r += 3 * x + 7;
        if c < y {
            k = y * 7;
            r += max(k, x + 1);
            r += k;
            for z in range(q + 1, max(500, x + 1)) {
                r += 5;
            }
        }
    } else {
        r2 += x * 10;
    }
    r += x * 2;
}
`

func main() {
	color.Cyan("source program:")
	fmt.Println(demoProgram)

	block, diags := parser.ParseString("demo.cf", demoProgram)
	if len(diags) > 0 {
		reporter := errors.NewErrorReporter("demo.cf", demoProgram)
		for _, d := range diags {
			fmt.Fprint(os.Stdout, reporter.FormatError(d))
		}
		os.Exit(1)
	}

	result, err := ir.Transform(block, ir.Options{
		MergeSiblingIncrements:       true,
		ConjoinSiblingIfs:            true,
		EvaluateCommonSubexpressions: true,
	}, logging.Discard())
	if err != nil {
		color.Red("transform failed: %s", err)
		os.Exit(1)
	}

	color.Green("python surface:")
	fmt.Println(ir.DumpPython(result))

	color.Green("c++ surface:")
	fmt.Println(ir.DumpCPP(result, ir.CasingSnake, "long long"))
}
