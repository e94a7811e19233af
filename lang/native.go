package lang

// NativeOp enumerates the operations implemented by the host.
type NativeOp int

const (
	NativeLog NativeOp = iota
	NativeRead
	NativeRandom
)

// NativeOps lists every native operation in declaration order.
var NativeOps = []NativeOp{NativeLog, NativeRead, NativeRandom}

var nativeNames = [...]string{
	NativeLog:    "log",
	NativeRead:   "read",
	NativeRandom: "random",
}

func (op NativeOp) String() string {
	if op >= 0 && int(op) < len(nativeNames) {
		return nativeNames[op]
	}
	return "unknown"
}

// Console performs the I/O behind the native operations.
type Console interface {
	// WriteLine prints one line of output.
	WriteLine(line string) error
	// ReadLine consumes one line of input; ok is false at end of input.
	ReadLine() (line string, ok bool, err error)
	// Intn returns a pseudo-random integer in [0, n).
	Intn(n int) int
}

// newConsoleObject builds the object exposing every native operation.
func newConsoleObject() Value {
	obj := NewObject()
	for _, op := range NativeOps {
		obj.Object().Entries[op.String()] = FunctionValue(&Function{Native: op})
	}
	return obj
}

func (in *Interpreter) callNative(op NativeOp, args *List) (Value, error) {
	switch op {
	case NativeLog:
		return Undefined, in.console.WriteLine(logText(args))
	case NativeRead:
		line, ok, err := in.console.ReadLine()
		if err != nil {
			return Undefined, err
		}
		if !ok {
			return Undefined, nil
		}
		return TextValue(line), nil
	case NativeRandom:
		return NumberValue(float64(in.console.Intn(2))), nil
	default:
		return Undefined, nil
	}
}

// logText renders the packed arguments as a list and strips its brackets,
// so several arguments print comma separated.
func logText(args *List) string {
	if len(args.Items) == 0 {
		return "undefined"
	}
	text := ListValue(args).String()
	return text[1 : len(text)-1]
}
