package lang

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sergev/minijs/parser"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeBool
	TypeNumber
	TypeText
	TypeList
	TypeObject
	TypeFunction
)

var typeNames = [...]string{
	TypeUndefined: "undefined",
	TypeBool:      "boolean",
	TypeNumber:    "number",
	TypeText:      "text",
	TypeList:      "list",
	TypeObject:    "object",
	TypeFunction:  "function",
}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Value represents any runtime value. The zero Value is undefined.
// Lists, objects and functions are held by pointer, so copying a Value
// aliases their storage.
type Value struct {
	Type    ValueType
	payload interface{}
}

// List is an ordered, mutable sequence.
type List struct {
	Items []Value
}

// Object maps text keys to values.
type Object struct {
	Entries map[string]Value
}

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Entries))
	for k := range o.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Function is either a user-defined function closed over the frame it was
// created in, or a native operation.
type Function struct {
	Decl   *parser.FuncExpr // nil for natives
	Frame  *Frame
	Native NativeOp
}

// IsNative reports whether the function is implemented by the host.
func (fn *Function) IsNative() bool { return fn.Decl == nil }

// Undefined is the undefined value.
var Undefined = Value{}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// NumberValue constructs a number Value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// TextValue constructs a text Value.
func TextValue(s string) Value {
	return Value{Type: TypeText, payload: s}
}

// ListValue wraps l. A nil list is replaced with an empty one.
func ListValue(l *List) Value {
	if l == nil {
		l = &List{}
	}
	return Value{Type: TypeList, payload: l}
}

// NewList constructs a list Value holding vals.
func NewList(vals ...Value) Value {
	items := make([]Value, len(vals))
	copy(items, vals)
	return ListValue(&List{Items: items})
}

// ObjectValue wraps o. A nil object is replaced with an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = &Object{}
	}
	if o.Entries == nil {
		o.Entries = make(map[string]Value)
	}
	return Value{Type: TypeObject, payload: o}
}

// NewObject constructs an empty object Value.
func NewObject() Value {
	return ObjectValue(nil)
}

// FunctionValue wraps fn.
func FunctionValue(fn *Function) Value {
	return Value{Type: TypeFunction, payload: fn}
}

// literal converts a parser constant into a Value.
func literal(v interface{}) Value {
	switch x := v.(type) {
	case bool:
		return BoolValue(x)
	case float64:
		return NumberValue(x)
	case string:
		return TextValue(x)
	default:
		return Undefined
	}
}

func (v Value) IsUndefined() bool { return v.Type == TypeUndefined }

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Text() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) List() *List {
	if l, ok := v.payload.(*List); ok {
		return l
	}
	return nil
}

func (v Value) Object() *Object {
	if o, ok := v.payload.(*Object); ok {
		return o
	}
	return nil
}

func (v Value) Function() *Function {
	if fn, ok := v.payload.(*Function); ok {
		return fn
	}
	return nil
}

// String renders the value as text. Lists render as "[a, b]" and objects as
// "{k: v}" with sorted keys; text inside them is not quoted.
func (v Value) String() string {
	var b strings.Builder
	writeValue(&b, v, nil)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, seen map[interface{}]bool) {
	switch v.Type {
	case TypeUndefined:
		b.WriteString("undefined")
	case TypeBool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case TypeNumber:
		b.WriteString(FormatNumber(v.Number()))
	case TypeText:
		b.WriteString(v.Text())
	case TypeList:
		l := v.List()
		if seen[l] {
			b.WriteString("[...]")
			return
		}
		seen = mark(seen, l)
		b.WriteByte('[')
		for i, item := range l.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item, seen)
		}
		b.WriteByte(']')
		delete(seen, l)
	case TypeObject:
		o := v.Object()
		if seen[o] {
			b.WriteString("{...}")
			return
		}
		seen = mark(seen, o)
		b.WriteByte('{')
		for i, k := range o.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, o.Entries[k], seen)
		}
		b.WriteByte('}')
		delete(seen, o)
	case TypeFunction:
		if fn := v.Function(); fn != nil && fn.IsNative() {
			b.WriteString("<native " + fn.Native.String() + ">")
			return
		}
		b.WriteString("<function>")
	default:
		b.WriteString("<unknown>")
	}
}

func mark(seen map[interface{}]bool, key interface{}) map[interface{}]bool {
	if seen == nil {
		seen = make(map[interface{}]bool)
	}
	seen[key] = true
	return seen
}

// FormatNumber renders f in its natural decimal form: integral values have
// no fraction, very large or small magnitudes use an exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
