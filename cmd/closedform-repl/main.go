// Command closedform-repl is an interactive shell over the
// resolve/split/reduce/sum/CSE pipeline.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"closedform/repl"
)

func main() {
	fmt.Println("closedform repl -- enter a program, then a blank line to run it.")
	repl.Start(os.Stdin, os.Stdout)
}
