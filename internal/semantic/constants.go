package semantic

import (
	"fmt"

	"closedform/internal/ast"
	"closedform/internal/errors"
)

// SubstituteConstants eliminates every "=" target from block before role
// checking or resolution ever see it. A "=" target is a single-assignment
// constant: its value is evaluated once, substituted into every later
// reference (expressions, guards, loop bounds), and the assignment itself
// disappears from the statement stream. Only "+=" increments survive into
// the returned block.
//
// Substitution uses one flat map across the whole program rather than a
// fresh scope per block: a constant is single-assignment over the whole
// program, not per lexical scope, so a constant defined inside one branch is
// visible to statements that follow it anywhere reachable in program order —
// there is no block-scoped shadowing in this language.
func SubstituteConstants(block ast.StatementBlock) (ast.StatementBlock, []errors.CompilerError) {
	consts := map[ast.Symbol]ast.Expr{}
	var diags []errors.CompilerError
	out := substituteBlock(block, consts, &diags)
	return out, diags
}

func substituteBlock(block ast.StatementBlock, consts map[ast.Symbol]ast.Expr, diags *[]errors.CompilerError) ast.StatementBlock {
	var out ast.StatementBlock

	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.Increment:
			value := ast.Substitute(s.Value, consts)
			if !s.Accumulate {
				if _, already := consts[s.Target]; already {
					*diags = append(*diags, constantReassignedError(s.Target, s.P))
					continue
				}
				consts[s.Target] = value
				continue
			}
			out = append(out, &ast.Increment{
				Target:     s.Target,
				Value:      value,
				Accumulate: true,
				P:          s.P,
			})
		case *ast.If:
			out = append(out, &ast.If{
				Cond: substituteBool(s.Cond, consts),
				Body: substituteBlock(s.Body, consts, diags),
				P:    s.P,
			})
		case *ast.For:
			out = append(out, &ast.For{
				Index: s.Index,
				Start: ast.Substitute(s.Start, consts),
				Count: ast.Substitute(s.Count, consts),
				Body:  substituteBlock(s.Body, consts, diags),
				P:     s.P,
			})
		}
	}

	return out
}

// substituteBool rebuilds b with every constant reference replaced by its
// substituted value, mirroring ast.Substitute's recursive rebuild-via-
// smart-constructor approach but over BoolExpr instead of Expr.
func substituteBool(b ast.BoolExpr, consts map[ast.Symbol]ast.Expr) ast.BoolExpr {
	switch v := b.(type) {
	case *ast.BAnd:
		xs := make([]ast.BoolExpr, len(v.Xs))
		for i, x := range v.Xs {
			xs[i] = substituteBool(x, consts)
		}
		return ast.And(xs...)
	case *ast.BOr:
		xs := make([]ast.BoolExpr, len(v.Xs))
		for i, x := range v.Xs {
			xs[i] = substituteBool(x, consts)
		}
		return ast.Or(xs...)
	case *ast.BNot:
		return ast.Not(substituteBool(v.X, consts))
	case *ast.BAtomExpr:
		switch a := v.A.(type) {
		case *ast.Inequality:
			lhs := ast.Substitute(a.Lhs, consts)
			rhs := ast.Substitute(a.Rhs, consts)
			return ast.BoolFromInequality(ast.NewInequality(a.Op, lhs, rhs))
		case *ast.SymbolAtom:
			return v
		}
	}
	return b
}

func constantReassignedError(sym ast.Symbol, pos ast.Position) errors.CompilerError {
	return errors.NewCompilerError(
		errors.ErrorConstantReassigned,
		fmt.Sprintf("%s is a constant and cannot be assigned with \"=\" more than once", sym.Name),
		pos,
	).
		WithHelp("constants are substituted once at the point of their single \"=\" assignment; use \"+=\" if you meant to accumulate into it").
		Build()
}
