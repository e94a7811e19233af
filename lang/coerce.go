package lang

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumber is returned when a value has no numeric reading.
var ErrNotNumber = errors.New("not a number")

// IsTruthy reports the boolean reading of v. Only false and undefined are
// falsy; 0 and "" are truthy.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeUndefined:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// ToNumber converts v to a number. Non-numbers are rendered as text and
// parsed; text that does not parse yields ErrNotNumber.
func ToNumber(v Value) (float64, error) {
	if v.Type == TypeNumber {
		return v.Number(), nil
	}
	text := strings.TrimSpace(v.String())
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s %q", ErrNotNumber, v.Type, text)
	}
	return f, nil
}

// ToText converts v to its textual rendering.
func ToText(v Value) string {
	return v.String()
}

// Equal compares primitives by value and lists, objects and functions by
// identity. Values of different types are never equal.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeText:
		return a.Text() == b.Text()
	case TypeList:
		return a.List() == b.List()
	case TypeObject:
		return a.Object() == b.Object()
	case TypeFunction:
		return a.Function() == b.Function()
	default:
		return false
	}
}

// Add implements '+': numeric sum when both operands are numbers, text
// concatenation otherwise.
func Add(a, b Value) Value {
	if a.Type == TypeNumber && b.Type == TypeNumber {
		return NumberValue(a.Number() + b.Number())
	}
	return TextValue(ToText(a) + ToText(b))
}
