// Package grammar defines the participle grammar for the loop-program
// source language: a flat sequence of increment, if/else, and
// for-in-range(...) statements over integer-valued symbols.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

type Program struct {
	Statements []*Statement `@@*`
}

type Statement struct {
	Comment   *Comment       `  @@`
	If        *IfStmt        `| @@`
	For       *ForStmt       `| @@`
	Increment *IncrementStmt `| @@`
}

type Comment struct {
	Text string `@Comment`
}

type IncrementStmt struct {
	Pos      lexer.Position
	Target   string `@Ident`
	Operator string `@("=" | "+=")`
	Value    *Expr  `@@ ";"`
}

type IfStmt struct {
	Pos  lexer.Position
	Cond *BoolExpr    `"if" @@ "{"`
	Body []*Statement `@@* "}"`
	Else []*Statement `[ "else" "{" @@* "}" ]`
}

type ForStmt struct {
	Pos   lexer.Position
	Index string       `"for" @Ident "in" "range" "("`
	Start *Expr        `@@ ","`
	End   *Expr        `@@ ")" "{"`
	Body  []*Statement `@@* "}"`
}

// Expr is the lowest-precedence arithmetic level: a sum of Terms.
type Expr struct {
	Pos  lexer.Position
	Left *Term  `@@`
	Ops  []*AddOp `{ @@ }`
}

type AddOp struct {
	Operator string `@("+" | "-")`
	Right    *Term  `@@`
}

// Term is the product-of-factors level, binding tighter than + and -.
type Term struct {
	Left *Factor `@@`
	Ops  []*MulOp `{ @@ }`
}

type MulOp struct {
	Operator string  `@"*"`
	Right    *Factor `@@`
}

// Factor is the tightest-binding arithmetic level: literals, symbol
// references, parenthesized sub-expressions, unary negation, and the
// variadic max(...)/min(...) builtins.
type Factor struct {
	Pos     lexer.Position
	Neg     *Factor   `  "-" @@`
	Call    *Extremum `| @@`
	Integer *string   `| @Integer`
	Ident   *string   `| @Ident`
	Paren   *Expr     `| "(" @@ ")"`
}

// Extremum covers both max(...) and min(...); which keyword matched is
// recorded in Kind so the converter can pick ast.Max vs ast.Min.
type Extremum struct {
	Kind string  `@("max" | "min") "("`
	Args []*Expr `@@ { "," @@ } ")"`
}

// BoolExpr is the lowest-precedence boolean level: a disjunction of
// AndExprs.
type BoolExpr struct {
	Left *AndExpr `@@`
	Ops  []*OrOp  `{ @@ }`
}

type OrOp struct {
	Operator string   `@"||"`
	Right    *AndExpr `@@`
}

// AndExpr is a conjunction of NotExprs, binding tighter than ||.
type AndExpr struct {
	Left *NotExpr `@@`
	Ops  []*AndOp `{ @@ }`
}

type AndOp struct {
	Operator string   `@"&&"`
	Right    *NotExpr `@@`
}

// NotExpr is the tightest-binding boolean level: a comparison, a
// parenthesized BoolExpr, or a negation of either.
type NotExpr struct {
	Not   *NotExpr    `  "!" @@`
	Paren *BoolExpr   `| "(" @@ ")"`
	Cmp   *Comparison `| @@`
}

type Comparison struct {
	Pos      lexer.Position
	Left     *Expr  `@@`
	Operator string `@("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right    *Expr  `@@`
}
