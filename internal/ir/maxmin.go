package ir

import (
	"sort"
	"strings"

	"github.com/sasha-s/go-deadlock"

	"closedform/internal/ast"
)

// Case is one disjoint piece of a case-split: Guard holds exactly when Expr
// is the value the split-apart expression takes.
type Case struct {
	Guard Guard
	Expr  ast.Expr
}

// Splitter eliminates Max/Min nodes from an expression by case-splitting on
// which argument wins, over a fixed set of "target" symbols — the ones whose
// value actually varies across the cases being split (typically the
// enclosing loop's index). Results are memoized by the pair (expression
// identity, target set), since the same subexpression is frequently split
// against the same target inside a single resolve pass; every cache read
// and write happens under a deadlock-detecting mutex, so concurrent Split
// calls serialize their cache access.
type Splitter struct {
	mu    deadlock.Mutex
	cache map[string][]Case
}

// NewSplitter returns a ready-to-use Splitter.
func NewSplitter() *Splitter {
	return &Splitter{cache: map[string][]Case{}}
}

// Split returns the list of disjoint (guard, expr) cases that together cover
// every possible value of e, with every Max/Min node mentioning a target
// symbol replaced by the winning argument in each case. Max/Min nodes that
// mention no target symbol are left untouched: splitting them would not make
// the result any less symbolic, only larger.
func (s *Splitter) Split(e ast.Expr, targets map[ast.Symbol]bool) []Case {
	key := ast.CanonicalKey(e) + "|" + targetSetKey(targets)
	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	result := s.split(e, targets)

	s.mu.Lock()
	s.cache[key] = result
	s.mu.Unlock()
	return result
}

func targetSetKey(targets map[ast.Symbol]bool) string {
	names := make([]string, 0, len(targets))
	for sym, on := range targets {
		if on {
			names = append(names, sym.Name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func (s *Splitter) split(e ast.Expr, targets map[ast.Symbol]bool) []Case {
	switch v := e.(type) {
	case *ast.MaxExpr:
		if !ast.HasSymbol(e, targets) {
			return []Case{{Guard: TrueGuard(), Expr: e}}
		}
		return s.splitExtremum(v.Args, true, targets)
	case *ast.MinExpr:
		if !ast.HasSymbol(e, targets) {
			return []Case{{Guard: TrueGuard(), Expr: e}}
		}
		return s.splitExtremum(v.Args, false, targets)
	case *ast.Sum:
		return s.splitNary(v.Terms, targets, ast.Add)
	case *ast.Product:
		return s.splitNary(v.Factors, targets, ast.Mul)
	default:
		return []Case{{Guard: TrueGuard(), Expr: e}}
	}
}

// splitNary post-order-splits every child of a Sum/Product, then combines
// the per-child case lists by cross product: the result still covers every
// combination of which case each child is in, with the rebuild function
// (Add or Mul) applied to the chosen child values.
func (s *Splitter) splitNary(children []ast.Expr, targets map[ast.Symbol]bool, rebuild func(...ast.Expr) ast.Expr) []Case {
	perChild := make([][]Case, len(children))
	for i, c := range children {
		perChild[i] = s.split(c, targets)
	}
	return cartesianRebuild(perChild, rebuild)
}

func cartesianRebuild(perChild [][]Case, rebuild func(...ast.Expr) ast.Expr) []Case {
	type partial struct {
		guard Guard
		exprs []ast.Expr
	}
	acc := []partial{{guard: TrueGuard(), exprs: nil}}
	for _, childCases := range perChild {
		var next []partial
		for _, p := range acc {
			for _, cc := range childCases {
				exprs := append(append([]ast.Expr{}, p.exprs...), cc.Expr)
				next = append(next, partial{
					guard: p.guard.Conjoin(cc.Guard.Atoms...),
					exprs: exprs,
				})
			}
		}
		acc = next
	}
	out := make([]Case, len(acc))
	for i, p := range acc {
		out[i] = Case{Guard: p.guard, Expr: rebuild(p.exprs...)}
	}
	return out
}

// splitExtremum implements the case split for a single Max (isMax=true) or
// Min (isMax=false) node. Arguments are first partitioned into those that
// mention a target symbol ("symbol-bearing") and those that do not
// ("other"); the cross product of each argument's own sub-splits is taken
// first, then each combination's winner is decided using a leftmost-priority
// tie-break: symbol-bearing arguments, in their original left-to-right
// order, are tried before any "other" argument, and whichever candidate
// comes first in that priority order wins ties against everything that
// comes after it. That yields a disjoint, exhaustive set of guarded cases:
// each candidate's guard requires it to strictly beat every higher-priority
// candidate and to at-least-tie every lower-priority one.
func (s *Splitter) splitExtremum(args []ast.Expr, isMax bool, targets map[ast.Symbol]bool) []Case {
	perArg := make([][]Case, len(args))
	for i, a := range args {
		perArg[i] = s.split(a, targets)
	}

	type partial struct {
		guard Guard
		exprs []ast.Expr
	}
	acc := []partial{{guard: TrueGuard(), exprs: nil}}
	for _, argCases := range perArg {
		var next []partial
		for _, p := range acc {
			for _, ac := range argCases {
				exprs := append(append([]ast.Expr{}, p.exprs...), ac.Expr)
				next = append(next, partial{
					guard: p.guard.Conjoin(ac.Guard.Atoms...),
					exprs: exprs,
				})
			}
		}
		acc = next
	}

	priority := extremumPriority(args, targets)

	var out []Case
	for _, p := range acc {
		for rank, argIdx := range priority {
			var extra []ast.Atom
			for otherRank, otherIdx := range priority {
				if otherRank == rank {
					continue
				}
				lhs, rhs := p.exprs[argIdx], p.exprs[otherIdx]
				var op ast.CompareOp
				if otherRank < rank {
					// argIdx must strictly beat a higher-priority rival.
					if isMax {
						op = ast.OpGT
					} else {
						op = ast.OpLT
					}
				} else {
					// argIdx only needs to tie-or-beat a lower-priority one.
					if isMax {
						op = ast.OpGE
					} else {
						op = ast.OpLE
					}
				}
				extra = append(extra, ast.NewInequality(op, lhs, rhs))
			}
			out = append(out, Case{
				Guard: p.guard.Conjoin(extra...),
				Expr:  p.exprs[argIdx],
			})
		}
	}
	return out
}

// AtomCase is one disjoint piece of an atom-level case split: Guard holds
// exactly when Atom is the Max/Min-free equivalent atom for that case.
type AtomCase struct {
	Guard Guard
	Atom  ast.Atom
}

// SplitAtom eliminates Max/Min nodes from a guard atom the same way Split
// eliminates them from a value expression: each side of an Inequality is
// split independently via Split, then recombined by cross product into
// disjoint, Max/Min-free atoms. A SymbolAtom, or an Inequality with no
// Max/Min over targets on either side, comes back as a single case wrapping
// the atom unchanged.
func (s *Splitter) SplitAtom(atom ast.Atom, targets map[ast.Symbol]bool) []AtomCase {
	in, ok := atom.(*ast.Inequality)
	if !ok {
		return []AtomCase{{Guard: TrueGuard(), Atom: atom}}
	}

	lhsCases := s.Split(in.Lhs, targets)
	rhsCases := s.Split(in.Rhs, targets)

	out := make([]AtomCase, 0, len(lhsCases)*len(rhsCases))
	for _, lc := range lhsCases {
		for _, rc := range rhsCases {
			out = append(out, AtomCase{
				Guard: lc.Guard.Conjoin(rc.Guard.Atoms...),
				Atom:  ast.NewInequality(in.Op, lc.Expr, rc.Expr),
			})
		}
	}
	return out
}

// extremumPriority returns argument indices ordered symbol-bearing-first
// (original order preserved within each group), then the remaining "other"
// arguments (original order preserved).
func extremumPriority(args []ast.Expr, targets map[ast.Symbol]bool) []int {
	var symbolBearing, other []int
	for i, a := range args {
		if ast.HasSymbol(a, targets) {
			symbolBearing = append(symbolBearing, i)
		} else {
			other = append(other, i)
		}
	}
	return append(symbolBearing, other...)
}
