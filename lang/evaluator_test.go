package lang

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/sergev/minijs/parser"
)

type testConsole struct {
	out    []string
	input  []string
	random *rand.Rand
}

func newTestConsole(input ...string) *testConsole {
	return &testConsole{input: input, random: rand.New(rand.NewSource(1))}
}

func (c *testConsole) WriteLine(line string) error {
	c.out = append(c.out, line)
	return nil
}

func (c *testConsole) ReadLine() (string, bool, error) {
	if len(c.input) == 0 {
		return "", false, nil
	}
	line := c.input[0]
	c.input = c.input[1:]
	return line, true, nil
}

func (c *testConsole) Intn(n int) int {
	return c.random.Intn(n)
}

func runProgram(t *testing.T, src string, input ...string) string {
	t.Helper()
	console := newTestConsole(input...)
	in := NewInterpreter(console)
	if _, err := in.Run(src); err != nil {
		t.Fatalf("Run(%q) error: %v", src, err)
	}
	return strings.Join(console.out, "\n")
}

func runError(t *testing.T, src string, opts ...Option) error {
	t.Helper()
	in := NewInterpreter(newTestConsole(), opts...)
	_, err := in.Run(src)
	if err == nil {
		t.Fatalf("Run(%q) succeeded, want error", src)
	}
	return err
}

func TestEvalOperators(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"debug 1 + 1;", "2"},
		{`debug "a" + 1;`, "a1"},
		{`debug 1 + "a";`, "1a"},
		{`debug 2 * "3";`, "6"},
		{`debug "10" - 4;`, "6"},
		{"debug 7 / 2;", "3.5"},
		{"debug 1 / 0;", "Infinity"},
		{`debug -"3";`, "-3"},
		{`debug "2" < "10";`, "true"},
		{"debug 2 <= 2;", "true"},
		{"debug 3 >= 4;", "false"},
		{`debug 1 == "1";`, "false"},
		{"debug 1 != 2;", "true"},
		{"debug [1] == [1];", "false"},
		{"debug !0;", "false"},
		{"debug !undefined;", "true"},
		{`debug 0 ? "yes" : "no";`, "yes"},
		{`debug "" ? "yes" : "no";`, "yes"},
		{`debug false ? "yes" : "no";`, "no"},
		{"debug undefined;", "undefined"},
		{"debug {b: 1, a: [2]};", "{a: [2], b: 1}"},
		{"debug function() { };", "<function>"},
		{"debug console.log;", "<native log>"},
		{"debug console;", "{log: <native log>, random: <native random>, read: <native read>}"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestEvalDeclarations(t *testing.T) {
	if got, want := runProgram(t, "let v = 1; v = 2; v = v + 1; debug v;"), "3"; got != want {
		t.Fatalf("let reassignment => %s, want %s", got, want)
	}
	if got, want := runProgram(t, "let x = 1; { let x = 2; debug x; } debug x;"), "2\n1"; got != want {
		t.Fatalf("shadowing => %q, want %q", got, want)
	}
	if got, want := runProgram(t, "let u; debug u;"), "undefined"; got != want {
		t.Fatalf("uninitialised => %s, want %s", got, want)
	}

	for _, src := range []string{
		"const c = 1; c = 2;",
		"const c = 1; c++;",
		"console = 1;",
	} {
		err := runError(t, src)
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			t.Fatalf("%s => %v, want runtime error", src, err)
		}
		if !strings.Contains(rerr.Reason, "cannot assign to constant") {
			t.Fatalf("%s => %q, want constant assignment error", src, rerr.Reason)
		}
	}
}

func TestEvalLoops(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let n = 0; for (let x in [1, 2, 3]) n = n + x; debug n;", "6"},
		{"let o = {b: 2, a: 1}; for (let v in o) debug v;", "1\n2"},
		{"let v; for (v in [7, 8]) { } debug v;", "8"},
		{"let i = 0; let out = []; while (i < 3) { out[i] = i * i; i++; } debug out;", "[0, 1, 4]"},
		{"for (let x in []) debug x; debug 0;", "0"},
		// the sequence is captured before the first iteration
		{"let l = [1, 2]; let c = 0; for (let x in l) { l[0] = 9; c++; } debug c; debug l;", "2\n[9, 9, 1, 2]"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}

	err := runError(t, "for (let x in 5) debug x;")
	if got, want := err.Error(), "line 1: cannot iterate over number value"; got != want {
		t.Fatalf("for over number => %q, want %q", got, want)
	}
}

func TestEvalListAccess(t *testing.T) {
	src := "let l = [1, 2]; debug l[2]; debug l[-1]; l[2] = 3; debug l; l[0] = 0; debug l; debug l[1.9];"
	want := "undefined\nundefined\n[1, 2, 3]\n[0, 1, 2, 3]\n1"
	if got := runProgram(t, src); got != want {
		t.Fatalf("list access => %q, want %q", got, want)
	}

	err := runError(t, "let l = [1]; l[3] = 1;")
	if got, want := err.Error(), "line 1: list index 3 out of range [0, 1]"; got != want {
		t.Fatalf("write past end => %q, want %q", got, want)
	}
	err = runError(t, "let l = [1]; l[-1] = 1;")
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("negative write => %v, want out of range", err)
	}
}

func TestEvalObjectAccess(t *testing.T) {
	src := "let o = {}; o.x = 1; o['y'] = 2; o[3] = 'three'; debug o; debug o.z; debug o['3'];"
	want := "{3: three, x: 1, y: 2}\nundefined\nthree"
	if got := runProgram(t, src); got != want {
		t.Fatalf("object access => %q, want %q", got, want)
	}

	for _, tt := range []struct {
		src  string
		want string
	}{
		{"let x = 1; debug x[0];", "line 1: cannot index number value"},
		{"let u; debug u.field;", "line 1: cannot index undefined value"},
	} {
		if got := runError(t, tt.src).Error(); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestEvalIncrement(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let i = 1; debug i++; debug i;", "1\n2"},
		{"let i = 1; debug ++i; debug --i; debug i--; debug i;", "2\n1\n1\n0"},
		{"let s = '4'; s++; debug s;", "5"},
		// list targets go through the inserting write
		{"let l = [1]; l[0]++; debug l;", "[2, 1]"},
		{"let o = {n: 1}; o.n++; debug o.n;", "2"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}

	err := runError(t, "let s = 'a'; s++;")
	if !errors.Is(err, ErrNotNumber) {
		t.Fatalf("increment of text => %v, want ErrNotNumber", err)
	}
}

func TestEvalNoShortCircuit(t *testing.T) {
	src := `
let n = 0;
let bump = function() { n++; return true; };
let r = false && bump();
r = true || bump();
debug n;
debug r;
let pick = true ? 1 : bump();
debug n;
debug pick;
`
	if got, want := runProgram(t, src), "2\ntrue\n3\n1"; got != want {
		t.Fatalf("no short circuit => %q, want %q", got, want)
	}
}

func TestEvalFunctions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let f = function() { }; debug f();", "undefined"},
		{"let f = function() { return params; }; debug f(1, 2); debug f();", "[1, 2]\n[]"},
		{`
let fact = function() {
  let n = params[0];
  let r = 1;
  if (n > 1) r = n * fact(n - 1);
  return r;
};
debug fact(10);
`, "3628800"},
		{"let a = [1]; let b = a; debug a == b; debug a == [1];", "true\nfalse"},
		{"let f = function() { return function() { return 7; }; }; debug f()();", "7"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}

	err := runError(t, "let x = 1; x();")
	if got, want := err.Error(), "line 1: cannot call number value"; got != want {
		t.Fatalf("call of number => %q, want %q", got, want)
	}
}

func TestEvalClosuresShareBindings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let x = 1; let get = function() { return x; }; x = 5; debug get();", "5"},
		{`
let outer = 1;
let f;
{ let inner = 10; f = function() { return outer + inner; }; }
outer = 2;
debug f();
`, "12"},
		{`
let make = function() {
  let count = 0;
  let inc = function() { count++; return count; };
  return inc;
};
let c = make();
let d = make();
c(); c();
debug c();
debug d();
`, "3\n1"},
		// every iteration runs the body in a fresh scope
		{`
let fs = [];
for (let i in [1, 2, 3]) { let j = i; fs[0] = function() { return j; }; }
debug fs[2]();
debug fs[0]();
`, "1\n3"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestEvalStackOverflow(t *testing.T) {
	in := NewInterpreter(newTestConsole(), WithMaxDepth(50))
	_, err := in.Run("let f = function() { f(); }; f();")
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("runaway recursion => %v, want stack overflow", err)
	}
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Line != 1 {
		t.Fatalf("stack overflow must be a runtime error with a line, got %v", err)
	}

	// the interpreter stays usable afterwards
	val, err := in.Run("let g = function() { return 1; }; g();")
	if err != nil {
		t.Fatalf("Run after overflow error: %v", err)
	}
	if got := val.String(); got != "1" {
		t.Fatalf("Run after overflow => %s, want 1", got)
	}
}

func TestNativeLog(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`console.log(1, "x", true);`, "1, x, true"},
		{"console.log();", "undefined"},
		{`console.log("hi");`, "hi"},
		{`console.log([1, "x", true]);`, "[1, x, true]"},
		{"let r = console.log(1); debug r;", "1\nundefined"},
	}
	for _, tt := range tests {
		if got := runProgram(t, tt.src); got != tt.want {
			t.Fatalf("%s => %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestNativeRead(t *testing.T) {
	src := "let a = console.read(); let b = console.read(); let c = console.read(); debug a; debug b; debug c;"
	if got, want := runProgram(t, src, "first", "second"), "first\nsecond\nundefined"; got != want {
		t.Fatalf("read => %q, want %q", got, want)
	}
}

func TestNativeRandomYieldsZeroOrOne(t *testing.T) {
	src := `
let seen = {};
let i = 0;
while (i < 200) {
  let r = console.random();
  if (r != 0 && r != 1) debug r;
  seen[r] = true;
  i++;
}
debug seen;
`
	if got, want := runProgram(t, src), "{0: true, 1: true}"; got != want {
		t.Fatalf("random => %q, want %q", got, want)
	}
}

func TestInterpreterKeepsGlobalsBetweenRuns(t *testing.T) {
	console := newTestConsole()
	in := NewInterpreter(console)
	if _, err := in.Run("let g = 5;"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, err := in.Run("let h = 1; bogus;"); err == nil {
		t.Fatalf("expected undeclared name error")
	}
	// declarations of the failed input are discarded
	if got := in.Global().Len(); got != 2 {
		t.Fatalf("global slots => %d, want 2", got)
	}
	_, err := in.Run("debug h;")
	var serr *parser.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("debug h => %v, want syntax error", err)
	}
	if _, err := in.Run("g = g + 1; debug g;"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got, want := strings.Join(console.out, "\n"), "6"; got != want {
		t.Fatalf("output => %q, want %q", got, want)
	}
	g, _ := in.Global().Lookup("g")
	if got := in.Globals().Get(g, 0); got.Type != TypeNumber || got.Number() != 6 {
		t.Fatalf("global g => %s, want 6", got)
	}
}

func TestInterpreterResultAndCall(t *testing.T) {
	in := NewInterpreter(newTestConsole())
	val, err := in.Run("1 + 2;")
	if err != nil || val.String() != "3" {
		t.Fatalf("Run(1 + 2) => %s, %v", val, err)
	}
	val, err = in.Run("let q = 1;")
	if err != nil || !val.IsUndefined() {
		t.Fatalf("Run(let) => %s, %v; want undefined", val, err)
	}

	fn, err := in.Run("function() { return params[0] + params[1]; };")
	if err != nil {
		t.Fatalf("Run(function) error: %v", err)
	}
	sum, err := in.Call(fn, NumberValue(2), NumberValue(3))
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if sum.Type != TypeNumber || sum.Number() != 5 {
		t.Fatalf("Call => %s, want 5", sum)
	}
	if _, err := in.Call(NumberValue(1)); err == nil {
		t.Fatalf("expected error calling a number")
	}
}

func TestRuntimeErrorLine(t *testing.T) {
	err := runError(t, "let a = 1;\nlet b = a * 'x';")
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Line != 2 {
		t.Fatalf("error => %v, want runtime error on line 2", err)
	}
	if !errors.Is(err, ErrNotNumber) {
		t.Fatalf("error => %v, want ErrNotNumber", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Fatalf("error text => %q", err.Error())
	}
}
