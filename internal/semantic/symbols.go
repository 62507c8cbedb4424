package semantic

import "closedform/internal/ast"

// roleBinding records where a symbol first took on a given role, so the
// checker can report a useful position when a later use conflicts with it.
type roleBinding struct {
	role ast.Role
	pos  ast.Position
}

// roleTable accumulates every symbol's role across an entire program. A
// symbol's role is a whole-program property, not a per-scope one: a symbol
// is a loop index, a result, or a constant regardless of which block happens
// to mention it, so one flat map (rather than a scope stack) suffices.
type roleTable struct {
	bindings map[ast.Symbol]roleBinding
}

func newRoleTable() *roleTable {
	return &roleTable{bindings: map[ast.Symbol]roleBinding{}}
}

// bind records sym as having role at pos, returning the prior binding (if
// any) so the caller can decide whether this is a conflict.
func (t *roleTable) bind(sym ast.Symbol, role ast.Role, pos ast.Position) (prior roleBinding, hadPrior bool) {
	prior, hadPrior = t.bindings[sym]
	if !hadPrior {
		t.bindings[sym] = roleBinding{role: role, pos: pos}
	}
	return prior, hadPrior
}

func (t *roleTable) roleOf(sym ast.Symbol) ast.Role {
	return t.bindings[sym].role
}
