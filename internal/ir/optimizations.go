package ir

import (
	"fmt"

	"closedform/internal/ast"
)

// Options controls the optional simplification passes this package applies
// between resolution and emission. Every flag defaults to its zero value
// (off), mirroring the conservative defaults of the module-level flags this
// Options type replaces.
type Options struct {
	// MergeSiblingIncrements folds consecutive ResolvedIncrements that
	// share both Target and Guard into a single increment of their summed
	// value, shrinking the straight-line program without changing its
	// semantics (addition is commutative and associative).
	MergeSiblingIncrements bool
	// ConjoinSiblingIfs, like MergeSiblingIncrements, makes Transform run
	// MergeSiblings, which only combines adjacent increments sharing both
	// Target and Guard; it does not combine increments with different
	// targets. Both printers group adjacent increments under structurally
	// equal guards into one if block whether or not this flag is set.
	ConjoinSiblingIfs bool
	// EvaluateCommonSubexpressions runs the CSE pass (see CSE below).
	EvaluateCommonSubexpressions bool
	// SimplifyIncrements requests additional algebraic simplification of
	// each increment's value expression beyond the flatten-and-fold that
	// Add/Mul/Max/Min already perform unconditionally during construction.
	// This pipeline's Expr algebra has no further simplification to apply
	// beyond that normal form, so the flag is accepted and threaded through
	// for parity with the feature this repo's policy profile exposes, but
	// it has no additional observable effect — recorded as an explicit,
	// intentional no-op rather than silently ignored.
	SimplifyIncrements bool
}

// MergeSiblings combines adjacent ResolvedIncrements in b that share both
// Target and a structurally-equal Guard, replacing them with one increment
// of their summed Value. Order among distinct (target, guard) pairs is
// preserved; only truly adjacent matches merge, since additive accumulation
// is order-insensitive for the same target but guards may depend on values
// computed by statements between two non-adjacent increments that happen to
// share a guard.
func MergeSiblings(b *ResolvedBlock) {
	if len(b.Increments) == 0 {
		return
	}
	merged := []ResolvedIncrement{b.Increments[0]}
	for _, inc := range b.Increments[1:] {
		last := &merged[len(merged)-1]
		if last.Target == inc.Target && guardsEqual(last.Guard, inc.Guard) {
			last.Value = ast.Add(last.Value, inc.Value)
			continue
		}
		merged = append(merged, inc)
	}
	b.Increments = merged
}

func guardsEqual(a, b Guard) bool {
	return ast.StructurallyEqualBool(a.BoolExpr(), b.BoolExpr())
}

// CSE extracts repeated, non-trivial subexpressions out of every increment
// value and guard atom in b into named helper assignments, returning a
// CSEBlock ready for emission. A subexpression is "non-trivial" when it is
// anything other than a bare Const or Sym — those are already as small as a
// helper reference would be. Each distinct subexpression (by
// ast.CanonicalKey) that occurs two or more times is extracted exactly
// once, in first-occurrence order, and every occurrence (including the
// first) is replaced by a reference to its helper.
//
// This runs in two passes because hoisting decisions aren't knowable until
// every occurrence has been seen: the first pass counts canonical-key
// occurrences across the whole block, the second rewrites the tree using
// those final counts.
func CSE(b *ResolvedBlock) *CSEBlock {
	counts := map[string]int{}
	for _, inc := range b.Increments {
		countExpr(inc.Value, counts)
		for _, a := range inc.Guard.Atoms {
			if in, ok := a.(*ast.Inequality); ok {
				countExpr(in.Lhs, counts)
				countExpr(in.Rhs, counts)
			}
		}
	}

	extractor := &cseExtractor{counts: counts, names: map[string]string{}}

	rebuilt := make([]ResolvedIncrement, len(b.Increments))
	for i, inc := range b.Increments {
		rebuilt[i] = ResolvedIncrement{
			Target: inc.Target,
			Value:  extractor.rewrite(inc.Value),
			Guard:  Guard{Atoms: extractor.rewriteAtoms(inc.Guard.Atoms)},
		}
	}
	extractor.finalizeInOrder()

	for i, inc := range rebuilt {
		rebuilt[i].Value = extractor.resolvePending(inc.Value)
		rebuilt[i].Guard = Guard{Atoms: extractor.resolvePendingAtoms(inc.Guard.Atoms)}
	}

	return &CSEBlock{
		ZeroInit:   b.Targets(),
		Helpers:    extractor.helpers,
		Increments: rebuilt,
	}
}

func (c *cseExtractor) resolvePendingAtoms(atoms []ast.Atom) []ast.Atom {
	out := make([]ast.Atom, len(atoms))
	for i, a := range atoms {
		if in, ok := a.(*ast.Inequality); ok {
			out[i] = ast.NewInequality(in.Op, c.resolvePending(in.Lhs), c.resolvePending(in.Rhs))
			continue
		}
		out[i] = a
	}
	return out
}

// countExpr walks e bottom-up, bumping the occurrence count of every
// compound (non-Const, non-Sym) subexpression.
func countExpr(e ast.Expr, counts map[string]int) {
	switch v := e.(type) {
	case *ast.Const, *ast.Sym:
		return
	case *ast.Sum:
		for _, t := range v.Terms {
			countExpr(t, counts)
		}
	case *ast.Product:
		for _, f := range v.Factors {
			countExpr(f, counts)
		}
	case *ast.MaxExpr:
		for _, a := range v.Args {
			countExpr(a, counts)
		}
	case *ast.MinExpr:
		for _, a := range v.Args {
			countExpr(a, counts)
		}
	case *ast.Div:
		countExpr(v.Num, counts)
	default:
		return
	}
	counts[ast.CanonicalKey(e)]++
}

type cseExtractor struct {
	counts    map[string]int
	names     map[string]string // canonical key -> helper name, assigned lazily
	pending   []string          // canonical keys needing a helper, in first-seen order
	pendingOf map[string]ast.Expr
	helpers   []HelperAssignment
}

// rewrite replaces every compound subexpression occurring two or more times
// with a reference to its (not yet necessarily named) helper, recursing
// into children first so nested repeats resolve before their parent does.
func (c *cseExtractor) rewrite(e ast.Expr) ast.Expr {
	// The canonical key must be computed from e as given — the original,
	// unrewritten subtree — so it matches the key the counting pass saw;
	// recomputing it from the rebuilt children would change key for any
	// node whose own child just got replaced by a helper reference.
	var origKey string
	switch e.(type) {
	case *ast.Sum, *ast.Product, *ast.MaxExpr, *ast.MinExpr, *ast.Div:
		origKey = ast.CanonicalKey(e)
	}

	var rebuilt ast.Expr
	switch v := e.(type) {
	case *ast.Const, *ast.Sym:
		return e
	case *ast.Sum:
		terms := make([]ast.Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = c.rewrite(t)
		}
		rebuilt = &ast.Sum{Terms: terms}
	case *ast.Product:
		factors := make([]ast.Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = c.rewrite(f)
		}
		rebuilt = &ast.Product{Factors: factors}
	case *ast.MaxExpr:
		args := make([]ast.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.rewrite(a)
		}
		rebuilt = &ast.MaxExpr{Args: args}
	case *ast.MinExpr:
		args := make([]ast.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.rewrite(a)
		}
		rebuilt = &ast.MinExpr{Args: args}
	case *ast.Div:
		rebuilt = &ast.Div{Num: c.rewrite(v.Num), Den: v.Den}
	default:
		return e
	}

	if c.counts[origKey] < 2 {
		return rebuilt
	}
	if c.pendingOf == nil {
		c.pendingOf = map[string]ast.Expr{}
	}
	if _, queued := c.pendingOf[origKey]; !queued {
		c.pendingOf[origKey] = rebuilt
		c.pending = append(c.pending, origKey)
	}
	return &pendingRef{key: origKey}
}

func (c *cseExtractor) rewriteAtoms(atoms []ast.Atom) []ast.Atom {
	out := make([]ast.Atom, len(atoms))
	for i, a := range atoms {
		if in, ok := a.(*ast.Inequality); ok {
			out[i] = ast.NewInequality(in.Op, c.rewrite(in.Lhs), c.rewrite(in.Rhs))
			continue
		}
		out[i] = a
	}
	return out
}

// pendingRef is a placeholder Expr standing in for "whatever helper name
// key eventually gets"; resolvePending replaces every pendingRef with a
// concrete ast.Sym once finalizeInOrder has named every pending key, so no
// pendingRef survives into a CSEBlock returned from CSE.
type pendingRef struct {
	key string
}

func (*pendingRef) isExpr() {}
func (p *pendingRef) String() string { return "<pending:" + p.key + ">" }

// finalizeInOrder assigns a stable helper name to every canonical key that
// was queued for extraction, in first-occurrence order, and builds each
// helper's assignment with its own pendingRef placeholders resolved; CSE
// then resolves the placeholders in the rebuilt increments.
func (c *cseExtractor) finalizeInOrder() {
	for _, key := range c.pending {
		name := fmt.Sprintf("helper%d", len(c.helpers))
		c.names[key] = name
		c.helpers = append(c.helpers, HelperAssignment{Name: name, Value: c.resolvePending(c.pendingOf[key])})
	}
}

// resolvePending substitutes every pendingRef inside e with its final
// ast.Sym, now that every key has a name.
func (c *cseExtractor) resolvePending(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *pendingRef:
		return ast.NewSym(ast.NewSymbol(c.names[v.key]))
	case *ast.Sum:
		terms := make([]ast.Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = c.resolvePending(t)
		}
		return &ast.Sum{Terms: terms}
	case *ast.Product:
		factors := make([]ast.Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = c.resolvePending(f)
		}
		return &ast.Product{Factors: factors}
	case *ast.MaxExpr:
		args := make([]ast.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.resolvePending(a)
		}
		return &ast.MaxExpr{Args: args}
	case *ast.MinExpr:
		args := make([]ast.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.resolvePending(a)
		}
		return &ast.MinExpr{Args: args}
	case *ast.Div:
		return &ast.Div{Num: c.resolvePending(v.Num), Den: v.Den}
	default:
		return e
	}
}
