package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the loop-program source text. Multi-character operators
// are listed before their single-character prefixes so the regex engine's
// leftmost-first alternation picks them first.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Operator", `(\|\||&&|==|!=|<=|>=|\+=|[-+*()=<>!])`, nil},
		{"Punctuation", `[{},;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
