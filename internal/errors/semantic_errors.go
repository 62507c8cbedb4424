package errors

import (
	"closedform/internal/ast"
)

// CompilerErrorBuilder provides a fluent interface for building a
// CompilerError with suggestions and notes attached incrementally.
type CompilerErrorBuilder struct {
	err CompilerError
}

// NewCompilerError starts a builder for an error-level diagnostic.
func NewCompilerError(code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewCompilerWarning starts a builder for a warning-level diagnostic.
func NewCompilerWarning(code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *CompilerErrorBuilder) WithLength(length int) *CompilerErrorBuilder {
	b.err.Length = length
	return b
}

func (b *CompilerErrorBuilder) WithSuggestion(message string) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *CompilerErrorBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

func (b *CompilerErrorBuilder) WithNote(note string) *CompilerErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *CompilerErrorBuilder) WithHelp(help string) *CompilerErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *CompilerErrorBuilder) Build() CompilerError {
	return b.err
}
