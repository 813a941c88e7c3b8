package format

import (
	"fmt"
	"math"
)

// integer holds any Go integer without losing range: a sign and a magnitude.
type integer struct {
	mag uint64
	neg bool
}

func (n integer) fits(lo, hi int64) bool {
	if n.neg {
		// -mag >= lo  <=>  mag <= -lo
		return n.mag <= uint64(-(lo+1))+1
	}
	return n.mag <= uint64(hi)
}

func (n integer) fitsUnsigned(hi uint64) bool {
	return !n.neg && n.mag <= hi
}

// bits returns the two's complement representation.
func (n integer) bits() uint64 {
	if n.neg {
		return -n.mag
	}
	return n.mag
}

func fromInt64(v int64) integer {
	if v < 0 {
		return integer{mag: uint64(-(v + 1)) + 1, neg: true}
	}
	return integer{mag: uint64(v)}
}

func asInt(v any) (integer, bool) {
	switch x := v.(type) {
	case int:
		return fromInt64(int64(x)), true
	case int8:
		return fromInt64(int64(x)), true
	case int16:
		return fromInt64(int64(x)), true
	case int32:
		return fromInt64(int64(x)), true
	case int64:
		return fromInt64(x), true
	case uint:
		return integer{mag: uint64(x)}, true
	case uint8:
		return integer{mag: uint64(x)}, true
	case uint16:
		return integer{mag: uint64(x)}, true
	case uint32:
		return integer{mag: uint64(x)}, true
	case uint64:
		return integer{mag: x}, true
	case uintptr:
		return integer{mag: uint64(x)}, true
	}
	return integer{}, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	n, ok := asInt(v)
	if !ok {
		return 0, false
	}
	if n.neg {
		return -float64(n.mag), true
	}
	return float64(n.mag), true
}

func asBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	}
	return nil, false
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// ToInt64 converts a decoded signed or unsigned value. ok is false for
// non-integers and for uint64 values above MaxInt64.
func ToInt64(v any) (int64, bool) {
	n, ok := asInt(v)
	if !ok || !n.fits(math.MinInt64, math.MaxInt64) {
		return 0, false
	}
	return int64(n.bits()), true
}

// ToUint64 converts a decoded non-negative integer.
func ToUint64(v any) (uint64, bool) {
	n, ok := asInt(v)
	if !ok || n.neg {
		return 0, false
	}
	return n.mag, true
}

// ToFloat64 converts a decoded number.
func ToFloat64(v any) (float64, bool) {
	return asFloat(v)
}
