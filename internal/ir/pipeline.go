package ir

import (
	"closedform/internal/ast"
	"closedform/internal/logging"
)

// Transform runs the whole resolve -> optional-merge -> optional-CSE
// pipeline over a parsed program, in the order the options describe:
// resolution always happens, sibling merging (if enabled) runs once on the
// resolved block before CSE ever sees it, and CSE (if enabled) is the last
// step before emission. Disabling every optional pass still returns a valid
// CSEBlock — one with no Helpers and every ResolvedIncrement copied through
// unchanged.
func Transform(block ast.StatementBlock, opts Options, log logging.Logger) (*CSEBlock, error) {
	if log == nil {
		log = logging.Discard()
	}

	resolver := NewResolver(log)
	resolved, err := resolver.Resolve(block)
	if err != nil {
		return nil, err
	}

	if opts.MergeSiblingIncrements || opts.ConjoinSiblingIfs {
		MergeSiblings(resolved)
	}

	if opts.EvaluateCommonSubexpressions {
		return CSE(resolved), nil
	}

	return &CSEBlock{
		ZeroInit:   resolved.Targets(),
		Increments: resolved.Increments,
	}, nil
}
