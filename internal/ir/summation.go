package ir

import (
	"github.com/pkg/errors"

	"closedform/internal/ast"
)

// Range is a canonical half-open loop domain [Start, End) for a single
// index, already reduced from whatever comparison operators a nested guard
// used.
type Range struct {
	Start ast.Expr
	End   ast.Expr
}

// Count returns End - Start.
func (r Range) Count() ast.Expr { return ast.Sub(r.End, r.Start) }

// ReduceInequalities folds a set of inequalities on a single index symbol
// into one canonical half-open Range, combining multiple lower bounds with
// Max and multiple upper bounds with Min:
//
//	idx == k   -> start=k,   end=k+1
//	idx <  k   -> end=k
//	idx <= k   -> end=k+1
//	idx >  k   -> start=k+1
//	idx >= k   -> start=k
//
// An inequality with idx as the bare right-hand side is normalized first by
// flipping the operator. Every inequality must have idx as a bare symbol on
// exactly one side; any other shape is rejected with an error, including one
// that doesn't mention idx at all and one where idx appears only inside a
// larger expression (such as "i + 1 < n" or "2 * i < n", which are not
// rearranged).
func ReduceInequalities(idx ast.Symbol, base Range, atoms []*ast.Inequality) (Range, error) {
	starts := []ast.Expr{base.Start}
	ends := []ast.Expr{base.End}

	for _, atom := range atoms {
		normOp, bound, err := normalizeAgainst(idx, atom)
		if err != nil {
			return Range{}, err
		}
		switch normOp {
		case ast.OpEQ:
			starts = append(starts, bound)
			ends = append(ends, ast.Add(bound, ast.NewConst(1)))
		case ast.OpLT:
			ends = append(ends, bound)
		case ast.OpLE:
			ends = append(ends, ast.Add(bound, ast.NewConst(1)))
		case ast.OpGT:
			starts = append(starts, ast.Add(bound, ast.NewConst(1)))
		case ast.OpGE:
			starts = append(starts, bound)
		}
	}

	return Range{Start: ast.Max(starts...), End: ast.Min(ends...)}, nil
}

// normalizeAgainst rewrites atom into (op, bound) such that "idx op bound"
// is equivalent to atom, flipping the comparison if idx appears on the
// right-hand side instead of the left.
func normalizeAgainst(idx ast.Symbol, atom *ast.Inequality) (ast.CompareOp, ast.Expr, error) {
	lhsIsIdx := exprIsBareSymbol(atom.Lhs, idx)
	rhsIsIdx := exprIsBareSymbol(atom.Rhs, idx)

	switch {
	case lhsIsIdx && !rhsIsIdx:
		return atom.Op, atom.Rhs, nil
	case rhsIsIdx && !lhsIsIdx:
		return flipOp(atom.Op), atom.Lhs, nil
	default:
		return 0, nil, errors.Errorf("loop bound %s does not isolate index %s", atom.String(), idx.Name)
	}
}

func exprIsBareSymbol(e ast.Expr, sym ast.Symbol) bool {
	s, ok := e.(*ast.Sym)
	return ok && s.Symbol == sym
}

func flipOp(op ast.CompareOp) ast.CompareOp {
	switch op {
	case ast.OpLT:
		return ast.OpGT
	case ast.OpLE:
		return ast.OpGE
	case ast.OpGT:
		return ast.OpLT
	case ast.OpGE:
		return ast.OpLE
	default:
		return op
	}
}

// Summation computes the closed form of sum_{idx=r.Start}^{r.End-1} expr,
// for expr polynomials in idx up to degree 2 (constant, linear, quadratic) —
// the degrees that arise from the additive accumulation and counting-loop
// programs this pipeline targets. Anything of higher degree is rejected
// rather than silently truncated.
func Summation(expr ast.Expr, idx ast.Symbol, r Range) (ast.Expr, error) {
	coeffs, err := polynomialCoefficients(expr, idx)
	if err != nil {
		return nil, err
	}
	if len(coeffs) > 3 {
		return nil, errors.Errorf("closed-form summation over %s requires degree <= 2, got degree %d", idx.Name, len(coeffs)-1)
	}

	n := r.Count()
	s := r.Start

	var total ast.Expr = ast.NewConst(0)
	if len(coeffs) > 0 {
		// degree 0: c0 * n
		total = ast.Add(total, ast.Mul(coeffs[0], n))
	}
	if len(coeffs) > 1 {
		// degree 1: c1 * (s*n + n*(n-1)/2)
		nMinus1 := ast.Sub(n, ast.NewConst(1))
		triangular := ast.NewDiv(ast.Mul(n, nMinus1), 2)
		total = ast.Add(total, ast.Mul(coeffs[1], ast.Add(ast.Mul(s, n), triangular)))
	}
	if len(coeffs) > 2 {
		// degree 2: c2 * (n*s^2 + s*n*(n-1) + (n-1)*n*(2n-1)/6)
		nMinus1 := ast.Sub(n, ast.NewConst(1))
		twoNMinus1 := ast.Sub(ast.Mul(ast.NewConst(2), n), ast.NewConst(1))
		sumSquares := ast.NewDiv(ast.Mul(nMinus1, n, twoNMinus1), 6)
		quad := ast.Add(
			ast.Mul(n, ast.Mul(s, s)),
			ast.Mul(s, n, nMinus1),
			sumSquares,
		)
		total = ast.Add(total, ast.Mul(coeffs[2], quad))
	}
	return total, nil
}

// polynomialCoefficients expands expr as a polynomial in idx and returns its
// coefficients, lowest degree first. It handles the shapes that survive
// resolution and Max/Min splitting in this pipeline: sums and constant
// multiples of idx and idx*idx, plus terms with no idx dependence at all.
func polynomialCoefficients(expr ast.Expr, idx ast.Symbol) ([]ast.Expr, error) {
	switch v := expr.(type) {
	case *ast.Sum:
		var acc []ast.Expr
		for _, t := range v.Terms {
			c, err := polynomialCoefficients(t, idx)
			if err != nil {
				return nil, err
			}
			acc = addCoeffs(acc, c)
		}
		return acc, nil
	case *ast.Product:
		return productCoefficients(v.Factors, idx)
	case *ast.Sym:
		if v.Symbol == idx {
			return []ast.Expr{ast.NewConst(0), ast.NewConst(1)}, nil
		}
		return []ast.Expr{v}, nil
	default:
		if ast.HasSymbol(expr, map[ast.Symbol]bool{idx: true}) {
			return nil, errors.Errorf("expression %s is not a polynomial in %s this pipeline can sum in closed form", expr.String(), idx.Name)
		}
		return []ast.Expr{expr}, nil
	}
}

// productCoefficients multiplies together the polynomial-in-idx expansions
// of every factor.
func productCoefficients(factors []ast.Expr, idx ast.Symbol) ([]ast.Expr, error) {
	acc := []ast.Expr{ast.NewConst(1)}
	for _, f := range factors {
		c, err := polynomialCoefficients(f, idx)
		if err != nil {
			return nil, err
		}
		acc = mulCoeffs(acc, c)
	}
	return acc, nil
}

func addCoeffs(a, b []ast.Expr) []ast.Expr {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]ast.Expr, n)
	for i := 0; i < n; i++ {
		var x, y ast.Expr = ast.NewConst(0), ast.NewConst(0)
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = ast.Add(x, y)
	}
	return out
}

func mulCoeffs(a, b []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(a)+len(b)-1)
	for i := range out {
		out[i] = ast.NewConst(0)
	}
	for i, x := range a {
		for j, y := range b {
			out[i+j] = ast.Add(out[i+j], ast.Mul(x, y))
		}
	}
	return out
}
