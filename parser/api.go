package parser

import (
	"fmt"
	"io"
)

// ParseString parses a complete program, declaring its top-level names in
// global.
func ParseString(src string, global *Scope) (*BlockCmd, error) {
	return New(NewLexer(src), global).Process()
}

// ParseReader consumes a complete program from r.
func ParseReader(r io.Reader, global *Scope) (*BlockCmd, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return ParseString(string(data), global)
}
