package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergev/minijs/lang"
)

// Options configure an interpreter built by NewInterpreter.
type Options struct {
	Stdout   io.Writer
	Stdin    io.Reader
	MaxDepth int
	// Seed makes console.random reproducible when HasSeed is set.
	Seed    int64
	HasSeed bool
}

// NewInterpreter constructs an interpreter with the standard console
// installed. Zero options use the process streams.
func NewInterpreter(opts Options) *lang.Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	console := NewConsole(opts.Stdout, opts.Stdin)
	if opts.HasSeed {
		console.Seed(opts.Seed)
	}
	return lang.NewInterpreter(console, lang.WithMaxDepth(opts.MaxDepth))
}

func skipShebang(data []byte) []byte {
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			// keep the newline so line numbers stay aligned
			return data[idx:]
		}
		return []byte{}
	}
	return data
}

// EvaluateString parses and executes a complete program.
func EvaluateString(in *lang.Interpreter, src string) (lang.Value, error) {
	return in.Run(src)
}

// ReadSource consumes a complete program from r, dropping a leading #! line.
func ReadSource(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(skipShebang(data)), nil
}

// ReadFile loads a script file, dropping a leading #! line.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(skipShebang(data)), nil
}

// EvaluateReader consumes a complete program from the reader and executes it.
func EvaluateReader(in *lang.Interpreter, r io.Reader) (lang.Value, error) {
	src, err := ReadSource(r)
	if err != nil {
		return lang.Value{}, err
	}
	return in.Run(src)
}

// EvaluateFile loads and executes a script file, allowing a #! line.
func EvaluateFile(in *lang.Interpreter, path string) (lang.Value, error) {
	src, err := ReadFile(path)
	if err != nil {
		return lang.Value{}, err
	}
	val, err := in.Run(src)
	if err != nil {
		return lang.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return val, nil
}
