package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergev/minijs/runtime"
)

func runMain(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("MINIJS_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunSource(t *testing.T) {
	code, out, errOut := runMain(t, "", "-e", `let x = 40; console.log("answer", x + 2);`)
	if code != 0 {
		t.Fatalf("exit code => %d, stderr %q", code, errOut)
	}
	if got, want := out, "answer, 42\n"; got != want {
		t.Fatalf("stdout => %q, want %q", got, want)
	}
}

func TestRunExitCodes(t *testing.T) {
	code, _, errOut := runMain(t, "", "-e", "debug y;")
	if code != 1 || !strings.Contains(errOut, "undeclared variable [y]") {
		t.Fatalf("syntax error => %d, %q", code, errOut)
	}
	code, _, errOut = runMain(t, "", "-e", "const c = 1; c = 2;")
	if code != 1 || !strings.Contains(errOut, "line 1: cannot assign to constant c") {
		t.Fatalf("runtime error => %d, %q", code, errOut)
	}
	code, _, _ = runMain(t, "", "-no-such-flag")
	if code != 2 {
		t.Fatalf("bad flag => %d, want 2", code)
	}
	code, _, errOut = runMain(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "-e", "debug 1;")
	if code != 2 || !strings.Contains(errOut, "config") {
		t.Fatalf("missing config => %d, %q", code, errOut)
	}
}

func TestRunScriptFromStdin(t *testing.T) {
	code, out, errOut := runMain(t, "debug 1;\n", "-")
	if code != 0 || out != "1\n" {
		t.Fatalf("stdin script => %d, %q, %q", code, out, errOut)
	}
}

func TestRunFileWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "minijs.yaml")
	if err := os.WriteFile(cfgPath, []byte("max_depth: 10\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	script := filepath.Join(dir, "deep.js")
	if err := os.WriteFile(script, []byte("let f = function() { f(); };\nf();\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	code, _, errOut := runMain(t, "", "--config", cfgPath, script)
	if code != 1 || !strings.Contains(errOut, "stack overflow") {
		t.Fatalf("deep recursion => %d, %q", code, errOut)
	}

	// flags override the config file
	ok := filepath.Join(dir, "ok.js")
	if err := os.WriteFile(ok, []byte("let n = 0;\nlet f = function() { if (n < 50) { n++; f(); } };\nf();\ndebug n;\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	code, out, errOut := runMain(t, "", "--config", cfgPath, "--max-depth", "100", ok)
	if code != 0 || out != "50\n" {
		t.Fatalf("max-depth override => %d, %q, %q", code, out, errOut)
	}
}

func TestRunSeedIsReproducible(t *testing.T) {
	src := "let i = 0; let out = []; while (i < 16) { out[i] = console.random(); i++; } debug out;"
	_, first, _ := runMain(t, "", "--seed", "3", "-e", src)
	_, second, _ := runMain(t, "", "--seed", "3", "-e", src)
	if first == "" || first != second {
		t.Fatalf("seeded runs differ: %q vs %q", first, second)
	}
}

func TestRunVerboseLogsSettings(t *testing.T) {
	code, out, errOut := runMain(t, "", "-v", "--max-depth", "77", "-e", "debug 1;")
	if code != 0 || out != "1\n" {
		t.Fatalf("verbose run => %d, %q", code, out)
	}
	if !strings.Contains(errOut, "settings resolved") || !strings.Contains(errOut, "max_depth=77") {
		t.Fatalf("stderr => %q", errOut)
	}

	_, _, errOut = runMain(t, "", "-e", "debug 1;")
	if errOut != "" {
		t.Fatalf("quiet run logged %q", errOut)
	}
}

func TestRunDumpAST(t *testing.T) {
	code, out, errOut := runMain(t, "", "--ast", "-e", "let a = 1; debug a + 2;")
	if code != 0 {
		t.Fatalf("exit code => %d, stderr %q", code, errOut)
	}
	if got, want := out, "(do (do (let a 1)) (debug (+ a/0 2)))\n"; got != want {
		t.Fatalf("stdout => %q, want %q", got, want)
	}
	if code, _, _ := runMain(t, "", "--ast"); code != 2 {
		t.Fatalf("--ast without program => %d, want 2", code)
	}
}

func TestBufferedREPL(t *testing.T) {
	input := strings.Join([]string{
		"let x = 1;",
		"x + 1;",
		"let f = function() {",
		"  return x * 10;",
		"};",
		"f();",
		"y;",
		"x = x + 1;",
		"debug x;",
		"",
	}, "\n")
	code, out, errOut := runMain(t, input)
	if code != 0 {
		t.Fatalf("exit code => %d", code)
	}
	if got, want := out, "2\n10\n2\n"; got != want {
		t.Fatalf("stdout => %q, want %q", got, want)
	}
	if !strings.Contains(errOut, "syntax error: line 1: undeclared variable [y]") {
		t.Fatalf("stderr => %q", errOut)
	}
}

func TestBufferedREPLIncompleteAtEOF(t *testing.T) {
	code, out, errOut := runMain(t, "let z = 1;\nif (true) {\n")
	if code != 0 || out != "" {
		t.Fatalf("REPL => %d, %q", code, out)
	}
	if !strings.Contains(errOut, "unexpected end of input") {
		t.Fatalf("stderr => %q", errOut)
	}
}

func TestREPLSharesInputWithConsoleRead(t *testing.T) {
	var stdout, stderr bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("let s = console.read();\nhello\ns;\n"))
	in := runtime.NewInterpreter(runtime.Options{Stdout: &stdout, Stdin: reader})
	runBufferedREPL(in, reader, &stdout, &stderr)
	if got, want := stdout.String(), "hello\n"; got != want {
		t.Fatalf("stdout => %q, want %q (stderr %q)", got, want, stderr.String())
	}
}
