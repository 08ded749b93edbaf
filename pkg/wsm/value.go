package wsm

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a typed scalar exchanged with the firmware core.
// The zero Value is invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
}

// IntValue creates an int Value.
func IntValue(v int) Value {
	return Value{kind: KindInt, i: int64(v)}
}

// Float32Value creates a float Value.
func Float32Value(v float32) Value {
	return Value{kind: KindFloat32, f: float64(v)}
}

// Float64Value creates a double Value.
func Float64Value(v float64) Value {
	return Value{kind: KindFloat64, f: v}
}

// BoolValue creates a bool Value.
func BoolValue(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid indicates the value carries a kind.
func (v Value) IsValid() bool {
	return v.kind != 0
}

// Int returns the value as an integer. Floats are truncated.
func (v Value) Int() int {
	switch v.kind {
	case KindInt:
		return int(v.i)
	case KindFloat32, KindFloat64:
		return int(v.f)
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Float returns the value as float64.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat32, KindFloat64:
		return v.f
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Bool returns the value as a boolean, non-zero numbers are true.
func (v Value) Bool() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindFloat32, KindFloat64:
		return v.f != 0
	case KindBool:
		return v.b
	}
	return false
}

// Interface returns the Go representation: int, float32, float64 or bool.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return int(v.i)
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindBool:
		return v.b
	}
	return nil
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "<invalid>"
}

// Coerce converts a dynamic value into the requested kind.
// Integer kinds accept integers and booleans. Float kinds additionally
// accept floating point numbers. Strings are never converted, use
// ParseValue for text input.
func Coerce(kind Kind, in interface{}) (Value, error) {
	if v, ok := in.(Value); ok {
		if !v.IsValid() {
			return Value{}, invalidArgf("invalid value")
		}
		in = v.Interface()
	}
	switch x := in.(type) {
	case bool:
		switch kind {
		case KindBool:
			return BoolValue(x), nil
		case KindInt, KindFloat32, KindFloat64:
			n := 0
			if x {
				n = 1
			}
			return coerceInt(kind, int64(n))
		}
	case int:
		return coerceInt(kind, int64(x))
	case int8:
		return coerceInt(kind, int64(x))
	case int16:
		return coerceInt(kind, int64(x))
	case int32:
		return coerceInt(kind, int64(x))
	case int64:
		return coerceInt(kind, x)
	case uint:
		return coerceUint(kind, uint64(x))
	case uint8:
		return coerceInt(kind, int64(x))
	case uint16:
		return coerceInt(kind, int64(x))
	case uint32:
		return coerceInt(kind, int64(x))
	case uint64:
		return coerceUint(kind, x)
	case float32:
		return coerceFloat(kind, float64(x))
	case float64:
		return coerceFloat(kind, x)
	case nil:
		return Value{}, invalidArgf("can't convert None to %s", kind)
	}
	return Value{}, invalidArgf("can't convert %T to %s", in, kind)
}

func coerceInt(kind Kind, n int64) (Value, error) {
	switch kind {
	case KindInt:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return Value{}, invalidArgf("%d overflows int", n)
		}
		return Value{kind: KindInt, i: n}, nil
	case KindFloat32:
		return Float32Value(float32(n)), nil
	case KindFloat64:
		return Float64Value(float64(n)), nil
	case KindBool:
		return BoolValue(n != 0), nil
	}
	return Value{}, invalidArgf("unknown kind %s", kind)
}

func coerceUint(kind Kind, n uint64) (Value, error) {
	if n > math.MaxInt64 {
		return Value{}, invalidArgf("%d overflows int", n)
	}
	return coerceInt(kind, int64(n))
}

func coerceFloat(kind Kind, f float64) (Value, error) {
	switch kind {
	case KindFloat32:
		return Float32Value(float32(f)), nil
	case KindFloat64:
		return Float64Value(f), nil
	case KindInt, KindBool:
		return Value{}, invalidArgf("can't convert float to %s", kind)
	}
	return Value{}, invalidArgf("unknown kind %s", kind)
}

// ParseValue parses text into a Value of the requested kind.
func ParseValue(kind Kind, s string) (Value, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return Value{}, invalidArgf("%v", err)
		}
		return Value{kind: KindInt, i: n}, nil
	case KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, invalidArgf("%v", err)
		}
		return Float32Value(float32(f)), nil
	case KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, invalidArgf("%v", err)
		}
		return Float64Value(f), nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, invalidArgf("%v", err)
		}
		return BoolValue(b), nil
	}
	return Value{}, invalidArgf("unknown kind %s", kind)
}

func invalidArgf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
