package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"closedform/internal/ast"
)

// Casing selects how the brace-style printer renders identifiers.
type Casing int

const (
	// CasingAsWritten leaves every identifier untouched.
	CasingAsWritten Casing = iota
	// CasingSnake renders every identifier in snake_case.
	CasingSnake
	// CasingCamel renders every identifier in camelCase.
	CasingCamel
)

func applyCasing(name string, c Casing) string {
	switch c {
	case CasingSnake:
		return strcase.ToSnake(name)
	case CasingCamel:
		return strcase.ToLowerCamel(name)
	default:
		return name
	}
}

// DumpPython renders b using the dynamically-typed surface: bare assignment
// statements, one `if` per guard group written with Python-style boolean
// operators, and no declared types anywhere. This mirrors the source
// program's own `dump_python` output shape; its colon-and-indent syntax is
// not the brace syntax the front-end grammar parses.
func DumpPython(b *CSEBlock) string {
	var out strings.Builder
	for _, sym := range b.ZeroInit {
		fmt.Fprintf(&out, "%s = 0\n", sym.Name)
	}
	for _, h := range b.Helpers {
		fmt.Fprintf(&out, "%s = %s\n", h.Name, pythonExpr(h.Value))
	}
	for _, inc := range groupByGuard(b.Increments) {
		writePythonGroup(&out, inc, 0)
	}
	return out.String()
}

type guardGroup struct {
	guard      Guard
	increments []ResolvedIncrement
}

// groupByGuard clusters adjacent increments that share a structurally equal
// guard, so the printers emit one `if` per distinct guard instead of one per
// increment.
func groupByGuard(incs []ResolvedIncrement) []guardGroup {
	var groups []guardGroup
	for _, inc := range incs {
		if n := len(groups); n > 0 && guardsEqual(groups[n-1].guard, inc.Guard) {
			groups[n-1].increments = append(groups[n-1].increments, inc)
			continue
		}
		groups = append(groups, guardGroup{guard: inc.Guard, increments: []ResolvedIncrement{inc}})
	}
	return groups
}

func writePythonGroup(out *strings.Builder, g guardGroup, depth int) {
	pad := strings.Repeat("    ", depth)
	hasGuard := len(g.guard.Atoms) > 0
	bodyDepth := depth
	if hasGuard {
		fmt.Fprintf(out, "%sif %s:\n", pad, pythonBool(g.guard.BoolExpr()))
		bodyDepth = depth + 1
	}
	bodyPad := strings.Repeat("    ", bodyDepth)
	for _, inc := range g.increments {
		fmt.Fprintf(out, "%s%s += %s\n", bodyPad, inc.Target.Name, pythonExpr(inc.Value))
	}
}

func pythonExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Const:
		return v.Val.String()
	case *ast.Sym:
		return v.Symbol.Name
	case *ast.Sum:
		return joinExpr(v.Terms, " + ", pythonExpr)
	case *ast.Product:
		return joinExpr(v.Factors, " * ", pythonExpr)
	case *ast.MaxExpr:
		return "max(" + joinExpr(v.Args, ", ", pythonExpr) + ")"
	case *ast.MinExpr:
		return "min(" + joinExpr(v.Args, ", ", pythonExpr) + ")"
	case *ast.Div:
		return "(" + pythonExpr(v.Num) + " // " + v.Den.String() + ")"
	default:
		return e.String()
	}
}

func pythonBool(x ast.BoolExpr) string {
	switch v := x.(type) {
	case *ast.BConst:
		if v.Value {
			return "True"
		}
		return "False"
	case *ast.BAtomExpr:
		return atomString(v.A, pythonExpr)
	case *ast.BAnd:
		return joinBoolExpr(v.Xs, " and ", pythonBool)
	case *ast.BOr:
		return joinBoolExpr(v.Xs, " or ", pythonBool)
	case *ast.BNot:
		return "not (" + pythonBool(v.X) + ")"
	default:
		return x.String()
	}
}

// DumpCPP renders b using the statically-shaped brace surface: declared
// integer types for every accumulator and helper, brace-delimited `if`
// blocks, and `&&`/`||`/`!` boolean operators. casing controls how every
// identifier is spelled in the output; intType names the integer type used
// for every declaration (e.g. "int64_t", "long").
func DumpCPP(b *CSEBlock, casing Casing, intType string) string {
	name := func(n string) string { return applyCasing(n, casing) }

	var out strings.Builder
	for _, sym := range b.ZeroInit {
		fmt.Fprintf(&out, "%s %s = 0;\n", intType, name(sym.Name))
	}
	for _, h := range b.Helpers {
		fmt.Fprintf(&out, "%s %s = %s;\n", intType, name(h.Name), cppExpr(h.Value, name))
	}
	for _, g := range groupByGuard(b.Increments) {
		writeCPPGroup(&out, g, 0, name)
	}
	return out.String()
}

func writeCPPGroup(out *strings.Builder, g guardGroup, depth int, name func(string) string) {
	pad := strings.Repeat("    ", depth)
	hasGuard := len(g.guard.Atoms) > 0
	bodyDepth := depth
	if hasGuard {
		fmt.Fprintf(out, "%sif (%s) {\n", pad, cppBool(g.guard.BoolExpr(), name))
		bodyDepth = depth + 1
	}
	bodyPad := strings.Repeat("    ", bodyDepth)
	for _, inc := range g.increments {
		fmt.Fprintf(out, "%s%s += %s;\n", bodyPad, name(inc.Target.Name), cppExpr(inc.Value, name))
	}
	if hasGuard {
		fmt.Fprintf(out, "%s}\n", pad)
	}
}

func cppExpr(e ast.Expr, name func(string) string) string {
	switch v := e.(type) {
	case *ast.Const:
		return v.Val.String()
	case *ast.Sym:
		return name(v.Symbol.Name)
	case *ast.Sum:
		parts := make([]string, len(v.Terms))
		for i, t := range v.Terms {
			parts[i] = cppExpr(t, name)
		}
		return "(" + strings.Join(parts, " + ") + ")"
	case *ast.Product:
		parts := make([]string, len(v.Factors))
		for i, f := range v.Factors {
			parts[i] = cppExpr(f, name)
		}
		return "(" + strings.Join(parts, " * ") + ")"
	case *ast.MaxExpr:
		return nestedCall("std::max", v.Args, name)
	case *ast.MinExpr:
		return nestedCall("std::min", v.Args, name)
	case *ast.Div:
		return "(" + cppExpr(v.Num, name) + " / " + v.Den.String() + ")"
	default:
		return e.String()
	}
}

// nestedCall renders an n-ary max/min as right-nested binary calls, since
// std::max/std::min in the target language's standard library are binary
// (or require an initializer-list overload this emitter avoids to keep the
// output portable across language standards).
func nestedCall(fn string, args []ast.Expr, name func(string) string) string {
	if len(args) == 1 {
		return cppExpr(args[0], name)
	}
	return fn + "(" + cppExpr(args[0], name) + ", " + nestedCall(fn, args[1:], name) + ")"
}

func cppBool(x ast.BoolExpr, name func(string) string) string {
	switch v := x.(type) {
	case *ast.BConst:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.BAtomExpr:
		return atomString(v.A, func(e ast.Expr) string { return cppExpr(e, name) })
	case *ast.BAnd:
		parts := make([]string, len(v.Xs))
		for i, sub := range v.Xs {
			parts[i] = cppBool(sub, name)
		}
		return "(" + strings.Join(parts, " && ") + ")"
	case *ast.BOr:
		parts := make([]string, len(v.Xs))
		for i, sub := range v.Xs {
			parts[i] = cppBool(sub, name)
		}
		return "(" + strings.Join(parts, " || ") + ")"
	case *ast.BNot:
		return "!(" + cppBool(v.X, name) + ")"
	default:
		return x.String()
	}
}

func atomString(a ast.Atom, exprStr func(ast.Expr) string) string {
	switch v := a.(type) {
	case *ast.Inequality:
		return exprStr(v.Lhs) + " " + v.Op.String() + " " + exprStr(v.Rhs)
	case *ast.SymbolAtom:
		if v.Negated {
			return "!" + v.Sym.Name
		}
		return v.Sym.Name
	default:
		return a.String()
	}
}

func joinExpr(xs []ast.Expr, sep string, render func(ast.Expr) string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = render(x)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func joinBoolExpr(xs []ast.BoolExpr, sep string, render func(ast.BoolExpr) string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = render(x)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// sortedTargetNames is used by tests asserting on a CSEBlock's declared
// accumulator set independent of build order.
func sortedTargetNames(syms []ast.Symbol) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}
