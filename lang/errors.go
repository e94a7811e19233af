package lang

import (
	"errors"
	"fmt"

	"github.com/sergev/minijs/parser"
)

// ErrStackOverflow is wrapped by the runtime error raised when calls nest
// deeper than the interpreter allows.
var ErrStackOverflow = errors.New("stack overflow")

// RuntimeError is raised when an operation meets a value of the wrong shape.
type RuntimeError struct {
	Line   int
	Reason string
	Err    error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func runtimeErrorf(node parser.Node, format string, args ...interface{}) error {
	return &RuntimeError{
		Line:   node.Line(),
		Reason: fmt.Sprintf(format, args...),
	}
}

func wrapRuntime(node parser.Node, err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	return &RuntimeError{
		Line:   node.Line(),
		Reason: err.Error(),
		Err:    err,
	}
}
