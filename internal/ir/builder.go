package ir

import (
	"github.com/pkg/errors"

	"closedform/internal/ast"
	"closedform/internal/logging"
)

// Resolver turns an unresolved ast.StatementBlock into a flat ResolvedBlock,
// eliminating every For loop (by closed-form summation over its reduced
// range) and every nested If (by folding its condition into the guard of
// each increment beneath it) along the way. A Resolver is not safe for
// concurrent use; callers that need concurrency should give each goroutine
// its own Resolver, each with its own Splitter.
type Resolver struct {
	splitter *Splitter
	log      logging.Logger
}

// NewResolver returns a Resolver that logs splitter and range-reduction
// narration through log (pass logging.Discard() to silence it).
func NewResolver(log logging.Logger) *Resolver {
	return &Resolver{splitter: NewSplitter(), log: log}
}

// Resolve resolves an entire program block.
func (r *Resolver) Resolve(block ast.StatementBlock) (*ResolvedBlock, error) {
	out := &ResolvedBlock{}
	if err := r.resolveBlock(block, TrueGuard(), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolveBlock(block ast.StatementBlock, guard Guard, out *ResolvedBlock) error {
	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.Increment:
			if err := r.resolveIncrement(s, guard, out); err != nil {
				return err
			}
		case *ast.If:
			if err := r.resolveIf(s, guard, out); err != nil {
				return err
			}
		case *ast.For:
			if err := r.resolveFor(s, guard, out); err != nil {
				return err
			}
		default:
			return errors.Errorf("%s: unknown statement kind", stmt.Pos())
		}
	}
	return nil
}

// resolveIncrement appends a guarded increment for s, but first case-splits
// any Max/Min appearing in its value against whatever index symbols are
// already free in guard — a value like max(i, 0) must become two guarded
// increments before it can later be summed in closed form over i.
func (r *Resolver) resolveIncrement(s *ast.Increment, guard Guard, out *ResolvedBlock) error {
	targets := freeIndexSymbols(guard)
	cases := r.splitter.Split(s.Value, targets)
	for _, c := range cases {
		out.Increments = append(out.Increments, ResolvedIncrement{
			Target: s.Target,
			Value:  c.Expr,
			Guard:  guard.Conjoin(c.Guard.Atoms...),
		})
	}
	return nil
}

// resolveIf converts the If's boolean condition to DNF and fans the body out
// once per disjunct. DNF disjuncts are not in general mutually exclusive —
// "a > 0 || b > 0" is true under both of its disjuncts whenever both hold —
// so firing the body once per raw disjunct would double-count a case where
// more than one disjunct holds at once. To guarantee disjointness, disjunct j
// is instead guarded by (not C1) && ... && (not C_{j-1}) && Cj: exactly the
// cases where an earlier disjunct already fired are excluded from every
// later one, while the union across all j is still equivalent to the
// original condition. Negating an earlier disjunct reintroduces a
// disjunction (De Morgan on a conjunction yields a disjunction), so each
// negation is built as a disjoint union (!c1, c1 && !c2, ...) and each
// exclusive clause is expanded back to DNF, whose conjunctions are then
// pairwise exclusive, and atom-reduced before becoming a guard; any atom that still mentions a Max/Min of an index symbol already
// bound by an enclosing guard is case-split via the Splitter first, so no
// guard ever reaches the range reducer containing a Max/Min it cannot
// isolate the index from.
func (r *Resolver) resolveIf(s *ast.If, guard Guard, out *ResolvedBlock) error {
	dnf := ast.ToDNF(s.Cond)
	targets := freeIndexSymbols(guard)

	var excluded ast.BoolExpr = ast.True
	for _, disjunct := range rawDisjuncts(dnf) {
		clause := ast.And(excluded, disjunct)
		for _, exclusiveAtoms := range disjunctsAsAtomLists(ast.ToDNF(clause)) {
			for _, split := range r.splitAtomsAgainstTargets(exclusiveAtoms, targets) {
				extended := guard.Conjoin(split.atoms...).Conjoin(split.guard.Atoms...)
				if err := r.resolveBlock(s.Body, extended, out); err != nil {
					return err
				}
			}
		}
		// Negate the conjunction c1 && ... && cm as the disjoint union
		// !c1 || (c1 && !c2) || ... so that the DNF expansion of every later
		// clause is itself a set of mutually exclusive conjunctions.
		var members []ast.BoolExpr
		if and, ok := disjunct.(*ast.BAnd); ok {
			members = and.Xs
		} else {
			members = []ast.BoolExpr{disjunct}
		}
		var pieces []ast.BoolExpr
		for i, m := range members {
			pieces = append(pieces, ast.And(append(append([]ast.BoolExpr{}, members[:i]...), ast.Not(m))...))
		}
		excluded = ast.And(excluded, ast.Or(pieces...))
	}
	return nil
}

// rawDisjuncts returns the list of BoolExprs a (possibly DNF) disjunction is
// built from, treating a non-Or expression as its own single disjunct.
func rawDisjuncts(x ast.BoolExpr) []ast.BoolExpr {
	if or, ok := x.(*ast.BOr); ok {
		return or.Xs
	}
	return []ast.BoolExpr{x}
}

// disjunctsAsAtomLists reduces a DNF BoolExpr to its list of conjunctions,
// each expressed as a flat []ast.Atom.
func disjunctsAsAtomLists(x ast.BoolExpr) [][]ast.Atom {
	disjuncts := rawDisjuncts(x)
	out := make([][]ast.Atom, 0, len(disjuncts))
	for _, d := range disjuncts {
		out = append(out, atomsOfConjunction(d))
	}
	return out
}

// atomsCase is one disjoint piece of a guard-atom-list case split: guard
// holds the extra tie-break atoms a Max/Min split produced, atoms holds the
// rewritten, Max/Min-free atom list itself.
type atomsCase struct {
	guard Guard
	atoms []ast.Atom
}

// splitAtomsAgainstTargets case-splits every Max/Min-bearing atom in atoms
// against targets (see Splitter.SplitAtom), returning the cross product of
// each atom's own cases as a disjoint union of (extra guard, rewritten
// atoms) alternatives — the atom-list counterpart of cartesianRebuild.
func (r *Resolver) splitAtomsAgainstTargets(atoms []ast.Atom, targets map[ast.Symbol]bool) []atomsCase {
	acc := []atomsCase{{guard: TrueGuard()}}
	for _, atom := range atoms {
		var next []atomsCase
		for _, p := range acc {
			for _, c := range r.splitter.SplitAtom(atom, targets) {
				next = append(next, atomsCase{
					guard: p.guard.Conjoin(c.Guard.Atoms...),
					atoms: append(append([]ast.Atom{}, p.atoms...), c.Atom),
				})
			}
		}
		acc = next
	}
	return acc
}

func atomsOfConjunction(x ast.BoolExpr) []ast.Atom {
	var members []ast.BoolExpr
	if and, ok := x.(*ast.BAnd); ok {
		members = and.Xs
	} else {
		members = []ast.BoolExpr{x}
	}
	var atoms []ast.Atom
	for _, m := range members {
		if a, ok := m.(*ast.BAtomExpr); ok {
			atoms = append(atoms, a.A)
		}
		// A BConst(true) member contributes no atom. Any other survivor
		// (a BNot wrapping an un-negatable equality, or a BConst(false)
		// which And would already have collapsed the whole expression
		// into) is dropped here rather than treated as a hard failure,
		// leaving it to surface later as an always-false guard.
	}
	return atoms
}

// resolveFor eliminates a single loop by resolving its body against a guard
// that still mentions the (as yet unsummed) loop index, reducing the loop's
// own bounds together with any index inequalities that leaked into the
// guard from enclosing Ifs into one canonical range, and then replacing
// every resulting increment with its closed-form sum over that range.
func (r *Resolver) resolveFor(s *ast.For, guard Guard, out *ResolvedBlock) error {
	bodyGuard := guard.Conjoin(
		ast.NewInequality(ast.OpGE, ast.NewSym(s.Index), s.Start),
		ast.NewInequality(ast.OpLT, ast.NewSym(s.Index), ast.Add(s.Start, s.Count)),
	)

	var inner ResolvedBlock
	if err := r.resolveBlock(s.Body, bodyGuard, &inner); err != nil {
		return err
	}

	for _, inc := range inner.Increments {
		indexAtoms, residual := partitionIndexAtoms(inc.Guard, s.Index)
		rng, err := ReduceInequalities(s.Index, Range{Start: s.Start, End: ast.Add(s.Start, s.Count)}, indexAtoms)
		if err != nil {
			return errors.Wrapf(err, "resolving loop over %s", s.Index.Name)
		}

		r.log.Debugf("summing %s over %s in [%s, %s)", inc.Value.String(), s.Index.Name, rng.Start.String(), rng.End.String())

		summed, err := Summation(inc.Value, s.Index, rng)
		if err != nil {
			return errors.Wrapf(err, "resolving loop over %s", s.Index.Name)
		}

		out.Increments = append(out.Increments, ResolvedIncrement{
			Target: inc.Target,
			Value:  summed,
			Guard:  Guard{Atoms: residual},
		})
	}
	return nil
}

// partitionIndexAtoms splits a guard's atoms into the Inequalities that
// constrain idx directly (to be folded into the loop's range) and every
// other atom (left behind on the resulting increment's guard).
func partitionIndexAtoms(g Guard, idx ast.Symbol) (indexAtoms []*ast.Inequality, residual []ast.Atom) {
	targets := map[ast.Symbol]bool{idx: true}
	for _, a := range g.Atoms {
		in, ok := a.(*ast.Inequality)
		if ok && ast.HasSymbol(in.Lhs, targets) != ast.HasSymbol(in.Rhs, targets) {
			indexAtoms = append(indexAtoms, in)
			continue
		}
		residual = append(residual, a)
	}
	return indexAtoms, residual
}

// freeIndexSymbols collects the symbols mentioned by a guard's inequality
// atoms, used as the Max/Min splitter's target set: these are exactly the
// symbols that still vary across the cases being split at this point in
// resolution.
func freeIndexSymbols(g Guard) map[ast.Symbol]bool {
	out := map[ast.Symbol]bool{}
	for _, a := range g.Atoms {
		if in, ok := a.(*ast.Inequality); ok {
			ast.Walk(in.Lhs, func(e ast.Expr) {
				if s, ok := e.(*ast.Sym); ok {
					out[s.Symbol] = true
				}
			})
			ast.Walk(in.Rhs, func(e ast.Expr) {
				if s, ok := e.(*ast.Sym); ok {
					out[s.Symbol] = true
				}
			})
		}
	}
	return out
}
