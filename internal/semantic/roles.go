// Package semantic role-checks a parsed ast.StatementBlock: it verifies
// that every symbol keeps exactly one of the three disjoint roles
// (ast.RoleIndex, ast.RoleResult, everything else implicitly
// ast.RoleConstant) for the program's whole lifetime, and that a loop index
// is only ever read inside the body of the for-loop that introduces it.
package semantic

import (
	"fmt"

	"closedform/internal/ast"
	"closedform/internal/errors"
)

// CheckRoles walks block and returns one errors.CompilerError per role
// violation found. An empty result means every symbol's role is consistent
// and every index read is in scope.
func CheckRoles(block ast.StatementBlock) []errors.CompilerError {
	rt := newRoleTable()
	var diags []errors.CompilerError

	collectBindings(block, rt, &diags)

	active := map[ast.Symbol]bool{}
	checkScope(block, rt, active, &diags)

	return diags
}

// collectBindings makes a single whole-program pass assigning ast.RoleIndex
// to every for-loop's index and ast.RoleResult to every increment's target,
// in first-occurrence order, flagging any symbol whose second binding
// attempt asks for a different role than its first.
func collectBindings(block ast.StatementBlock, rt *roleTable, diags *[]errors.CompilerError) {
	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.Increment:
			if !s.Accumulate {
				continue
			}
			if prior, had := rt.bind(s.Target, ast.RoleResult, s.P); had && prior.role != ast.RoleResult {
				*diags = append(*diags, roleConflictError(s.Target, prior, ast.RoleResult, s.P))
			}
		case *ast.If:
			collectBindings(s.Body, rt, diags)
		case *ast.For:
			if prior, had := rt.bind(s.Index, ast.RoleIndex, s.P); had && prior.role != ast.RoleIndex {
				*diags = append(*diags, roleConflictError(s.Index, prior, ast.RoleIndex, s.P))
			}
			collectBindings(s.Body, rt, diags)
		}
	}
}

// checkScope makes a second pass, tracking which index symbols are
// currently in scope, to catch two distinct mistakes: reading an
// index-role symbol from outside the body of the loop that binds it, and a
// nested for-loop shadowing an already-open index with the same name.
func checkScope(block ast.StatementBlock, rt *roleTable, active map[ast.Symbol]bool, diags *[]errors.CompilerError) {
	checkRead := func(sym ast.Symbol, pos ast.Position) {
		if rt.roleOf(sym) == ast.RoleIndex && !active[sym] {
			*diags = append(*diags, indexOutOfScopeError(sym, pos))
		}
	}

	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.Increment:
			walkExprSymbols(s.Value, func(sym ast.Symbol) { checkRead(sym, s.P) })
		case *ast.If:
			walkBoolSymbols(s.Cond, func(sym ast.Symbol) { checkRead(sym, s.P) })
			checkScope(s.Body, rt, active, diags)
		case *ast.For:
			walkExprSymbols(s.Start, func(sym ast.Symbol) { checkRead(sym, s.P) })
			walkExprSymbols(s.Count, func(sym ast.Symbol) { checkRead(sym, s.P) })

			if active[s.Index] {
				*diags = append(*diags, indexShadowError(s.Index, s.P))
			}
			active[s.Index] = true
			checkScope(s.Body, rt, active, diags)
			delete(active, s.Index)
		}
	}
}

func walkExprSymbols(e ast.Expr, visit func(ast.Symbol)) {
	ast.Walk(e, func(n ast.Expr) {
		if sym, ok := n.(*ast.Sym); ok {
			visit(sym.Symbol)
		}
	})
}

func walkBoolSymbols(b ast.BoolExpr, visit func(ast.Symbol)) {
	switch v := b.(type) {
	case *ast.BAnd:
		for _, x := range v.Xs {
			walkBoolSymbols(x, visit)
		}
	case *ast.BOr:
		for _, x := range v.Xs {
			walkBoolSymbols(x, visit)
		}
	case *ast.BNot:
		walkBoolSymbols(v.X, visit)
	case *ast.BAtomExpr:
		switch a := v.A.(type) {
		case *ast.Inequality:
			walkExprSymbols(a.Lhs, visit)
			walkExprSymbols(a.Rhs, visit)
		case *ast.SymbolAtom:
			visit(a.Sym)
		}
	}
}

func roleConflictError(sym ast.Symbol, prior roleBinding, attempted ast.Role, pos ast.Position) errors.CompilerError {
	return errors.NewCompilerError(
		errors.ErrorRoleConflict,
		fmt.Sprintf("%s is used as both a %s and a %s", sym.Name, prior.role, attempted),
		pos,
	).
		WithNote(fmt.Sprintf("first used as a %s at %s", prior.role, prior.pos)).
		WithHelp("a symbol may only ever play one of the three roles in a program").
		Build()
}

func indexOutOfScopeError(sym ast.Symbol, pos ast.Position) errors.CompilerError {
	return errors.NewCompilerError(
		errors.ErrorIndexReassigned,
		fmt.Sprintf("%s is a loop index read outside the body of its defining for-loop", sym.Name),
		pos,
	).Build()
}

func indexShadowError(sym ast.Symbol, pos ast.Position) errors.CompilerError {
	return errors.NewCompilerError(
		errors.ErrorIndexReassigned,
		fmt.Sprintf("nested for-loop reuses %s as its index while the enclosing loop's %s is still open", sym.Name, sym.Name),
		pos,
	).Build()
}
