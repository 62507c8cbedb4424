// Package parser lowers a grammar parse tree into an ast.StatementBlock,
// substitutes away every "=" constant, and runs the role-checker over what's
// left before handing it back to a caller bound for internal/ir.Transform.
package parser

import (
	"math/big"

	"github.com/alecthomas/participle/v2/lexer"

	"closedform/grammar"
	"closedform/internal/ast"
	"closedform/internal/errors"
	"closedform/internal/semantic"
)

// ParseString parses and role-checks source text in one step, returning the
// resolved-ready ast.StatementBlock plus every diagnostic the grammar or the
// role-checker produced. A non-empty error slice does not necessarily mean
// block is nil — syntax errors abort immediately, but role-check findings
// are collected so a caller can report every one of them at once.
func ParseString(name, source string) (ast.StatementBlock, []errors.CompilerError) {
	program, err := grammar.Parse(name, source)
	if err != nil {
		return nil, []errors.CompilerError{
			errors.NewCompilerError(errors.ErrorSyntax, err.Error(), ast.Position{Filename: name}).Build(),
		}
	}

	block := convertBlock(program.Statements)

	substituted, substDiags := semantic.SubstituteConstants(block)
	diags := append(substDiags, semantic.CheckRoles(substituted)...)
	return substituted, diags
}

func convertBlock(stmts []*grammar.Statement) ast.StatementBlock {
	var out ast.StatementBlock
	for _, s := range stmts {
		switch {
		case s.Increment != nil:
			out = append(out, convertIncrement(s.Increment))
		case s.If != nil:
			out = append(out, convertIf(s.If)...)
		case s.For != nil:
			out = append(out, convertFor(s.For))
		}
	}
	return out
}

func convertIncrement(s *grammar.IncrementStmt) *ast.Increment {
	return &ast.Increment{
		Target:     ast.NewSymbol(s.Target),
		Value:      convertExpr(s.Value),
		Accumulate: s.Operator == "+=",
		P:          toPosition(s.Pos),
	}
}

// convertIf returns one ast.Statement for a bare `if`, or two for an
// `if`/`else` — the else body desugars into a second If guarded by the
// negated condition, since ast.If carries no Else field of its own.
func convertIf(s *grammar.IfStmt) []ast.Statement {
	cond := convertBoolExpr(s.Cond)
	pos := toPosition(s.Pos)
	stmts := []ast.Statement{
		&ast.If{Cond: cond, Body: convertBlock(s.Body), P: pos},
	}
	if len(s.Else) > 0 {
		stmts = append(stmts, &ast.If{Cond: ast.Not(cond), Body: convertBlock(s.Else), P: pos})
	}
	return stmts
}

func convertFor(s *grammar.ForStmt) *ast.For {
	start := convertExpr(s.Start)
	end := convertExpr(s.End)
	return &ast.For{
		Index: ast.NewSymbol(s.Index),
		Start: start,
		Count: ast.Sub(end, start),
		Body:  convertBlock(s.Body),
		P:     toPosition(s.Pos),
	}
}

func convertExpr(e *grammar.Expr) ast.Expr {
	acc := convertTerm(e.Left)
	for _, op := range e.Ops {
		rhs := convertTerm(op.Right)
		if op.Operator == "-" {
			acc = ast.Sub(acc, rhs)
		} else {
			acc = ast.Add(acc, rhs)
		}
	}
	return acc
}

func convertTerm(t *grammar.Term) ast.Expr {
	acc := convertFactor(t.Left)
	for _, op := range t.Ops {
		acc = ast.Mul(acc, convertFactor(op.Right))
	}
	return acc
}

func convertFactor(f *grammar.Factor) ast.Expr {
	switch {
	case f.Neg != nil:
		return ast.Neg(convertFactor(f.Neg))
	case f.Call != nil:
		args := make([]ast.Expr, len(f.Call.Args))
		for i, a := range f.Call.Args {
			args[i] = convertExpr(a)
		}
		if f.Call.Kind == "max" {
			return ast.Max(args...)
		}
		return ast.Min(args...)
	case f.Integer != nil:
		n := new(big.Int)
		n.SetString(*f.Integer, 10)
		return ast.NewConstBig(n)
	case f.Ident != nil:
		return ast.NewSym(ast.NewSymbol(*f.Ident))
	case f.Paren != nil:
		return convertExpr(f.Paren)
	default:
		return ast.NewConst(0)
	}
}

func convertBoolExpr(b *grammar.BoolExpr) ast.BoolExpr {
	acc := convertAndExpr(b.Left)
	for _, op := range b.Ops {
		acc = ast.Or(acc, convertAndExpr(op.Right))
	}
	return acc
}

func convertAndExpr(a *grammar.AndExpr) ast.BoolExpr {
	acc := convertNotExpr(a.Left)
	for _, op := range a.Ops {
		acc = ast.And(acc, convertNotExpr(op.Right))
	}
	return acc
}

func convertNotExpr(n *grammar.NotExpr) ast.BoolExpr {
	switch {
	case n.Not != nil:
		return ast.Not(convertNotExpr(n.Not))
	case n.Paren != nil:
		return convertBoolExpr(n.Paren)
	case n.Cmp != nil:
		return convertComparison(n.Cmp)
	default:
		return ast.True
	}
}

// convertComparison builds the BoolExpr for a single comparison. != has no
// dedicated ast.CompareOp, since Negate() already handles flipping every
// other ordering operator; != is instead expressed as Not(==).
func convertComparison(c *grammar.Comparison) ast.BoolExpr {
	lhs := convertExpr(c.Left)
	rhs := convertExpr(c.Right)
	if c.Operator == "!=" {
		return ast.Not(ast.BoolFromInequality(ast.NewInequality(ast.OpEQ, lhs, rhs)))
	}
	op, ok := compareOp(c.Operator)
	if !ok {
		return ast.True
	}
	return ast.BoolFromInequality(ast.NewInequality(op, lhs, rhs))
}

func compareOp(s string) (ast.CompareOp, bool) {
	switch s {
	case "<":
		return ast.OpLT, true
	case "<=":
		return ast.OpLE, true
	case ">":
		return ast.OpGT, true
	case ">=":
		return ast.OpGE, true
	case "==":
		return ast.OpEQ, true
	default:
		return 0, false
	}
}

func toPosition(p lexer.Position) ast.Position {
	return ast.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}
