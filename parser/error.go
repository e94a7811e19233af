package parser

import (
	"errors"
	"fmt"
)

// SyntaxError reports the first unexpected token of a parse.
type SyntaxError struct {
	Line   int
	Column int
	Lexeme string
	Reason string

	// Incomplete is set when the input ended early, so that a REPL can keep
	// reading instead of reporting the error.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func unexpected(tok Token) *SyntaxError {
	err := &SyntaxError{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
		Lexeme: tok.Lexeme,
	}
	switch tok.Kind {
	case Invalid:
		err.Reason = fmt.Sprintf("invalid lexeme [%s]", tok.Lexeme)
	case UnexpectedEOF, EOF:
		err.Reason = "unexpected end of file"
		err.Incomplete = true
	default:
		err.Reason = fmt.Sprintf("unexpected lexeme [%s]", tok.Lexeme)
	}
	return err
}

func undeclared(tok Token) *SyntaxError {
	return &SyntaxError{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
		Lexeme: tok.Lexeme,
		Reason: fmt.Sprintf("undeclared variable [%s]", tok.Lexeme),
	}
}

func notAssignable(tok Token) *SyntaxError {
	return &SyntaxError{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
		Lexeme: tok.Lexeme,
		Reason: fmt.Sprintf("invalid assignment target before [%s]", tok.Lexeme),
	}
}

// IsIncomplete reports whether err was caused by input ending too early.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr.Incomplete
	}
	return false
}
