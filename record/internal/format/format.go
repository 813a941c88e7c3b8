package format

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/recview/errors"
)

// MaxWidth bounds the encoded size of a single format.
const MaxWidth = math.MaxInt32

type Item struct {
	Code Code
	Len  int // byte length for CodeBytes, 0 otherwise
}

func (it Item) Width() int {
	if it.Code == CodeBytes {
		return it.Len
	}
	return it.Code.Width()
}

// Format is a parsed scalar format: a byte order plus one or more items.
type Format struct {
	Source   string
	Items    []Item
	Width    int
	Order    Order
	Explicit bool // format carried its own byte-order marker
}

// Parse parses a format string. Without a leading marker the inherited order
// applies. Whitespace between codes is ignored.
func Parse(src string, inherited Order) (*Format, error) {
	f := &Format{Source: src, Order: inherited}
	s := src

	if len(s) > 0 {
		if o, ok := OrderFromMarker(s[0]); ok {
			f.Order = o
			f.Explicit = true
			s = s[1:]
		}
	}

	width := uint64(0)
	for i := 0; i < len(s); {
		ch := s[i]
		if ch == ' ' || ch == '\t' || ch == '\n' {
			i++
			continue
		}

		count := 1
		if ch >= '0' && ch <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(s[i:j])
			if err != nil || n > MaxWidth {
				return nil, errors.New(errors.PhaseDeclare, errors.KindLayoutOverflow).
					Format(src).
					Detail("repeat count %q too large", s[i:j]).
					Build()
			}
			if j == len(s) {
				return nil, errors.InvalidFormat(nil, src, "repeat count without format code")
			}
			count = n
			i = j
			ch = s[i]
		}

		code, ok := codeFor(ch)
		if !ok {
			if _, isMarker := OrderFromMarker(ch); isMarker {
				return nil, errors.InvalidFormat(nil, src, "byte-order marker must lead the format")
			}
			return nil, errors.InvalidFormat(nil, src, "unknown format code "+strconv.QuoteRune(rune(ch)))
		}
		i++

		if code == CodeBytes {
			width += uint64(count)
		} else {
			width += uint64(count) * uint64(code.Width())
		}
		if width > MaxWidth {
			return nil, errors.New(errors.PhaseDeclare, errors.KindLayoutOverflow).
				Format(src).
				Detail("format width %d exceeds %d", width, MaxWidth).
				Build()
		}

		if code == CodeBytes {
			f.Items = append(f.Items, Item{Code: CodeBytes, Len: count})
		} else {
			for k := 0; k < count; k++ {
				f.Items = append(f.Items, Item{Code: code})
			}
		}
	}

	if len(f.Items) == 0 {
		return nil, errors.InvalidFormat(nil, src, "format declares no values")
	}

	f.Width = int(width)
	return f, nil
}

// String returns the canonical form with an explicit marker.
func (f *Format) String() string {
	var b strings.Builder
	b.WriteByte(f.Order.Marker())
	for _, it := range f.Items {
		if it.Code == CodeBytes {
			b.WriteString(strconv.Itoa(it.Len))
		}
		b.WriteByte(it.Code.Char())
	}
	return b.String()
}

// Single reports whether the format decodes to one value rather than a tuple.
func (f *Format) Single() bool {
	return len(f.Items) == 1
}

// Decode decodes buf[:f.Width]. The caller guarantees the length. A single
// item yields its value, several yield []any.
func (f *Format) Decode(buf []byte) any {
	if f.Single() {
		return decodeItem(f.Items[0], f.Order.ByteOrder(), buf)
	}
	return f.DecodeItems(buf)
}

// DecodeItems always yields a tuple.
func (f *Format) DecodeItems(buf []byte) []any {
	order := f.Order.ByteOrder()
	out := make([]any, len(f.Items))
	off := 0
	for i, it := range f.Items {
		out[i] = decodeItem(it, order, buf[off:])
		off += it.Width()
	}
	return out
}

func decodeItem(it Item, order binary.ByteOrder, b []byte) any {
	switch it.Code {
	case CodeBool:
		return b[0] != 0
	case CodeInt8:
		return int8(b[0])
	case CodeUint8:
		return b[0]
	case CodeInt16:
		return int16(order.Uint16(b))
	case CodeUint16:
		return order.Uint16(b)
	case CodeInt32:
		return int32(order.Uint32(b))
	case CodeUint32:
		return order.Uint32(b)
	case CodeInt64:
		return int64(order.Uint64(b))
	case CodeUint64:
		return order.Uint64(b)
	case CodeFloat32:
		return math.Float32frombits(order.Uint32(b))
	case CodeFloat64:
		return math.Float64frombits(order.Uint64(b))
	case CodeBytes:
		out := make([]byte, it.Len)
		copy(out, b[:it.Len])
		return out
	}
	return nil
}

// Encode writes v into dst[:f.Width]. A single-item format takes the bare
// value, a multi-item format takes []any of matching length. Nothing is
// written unless every item validates.
func (f *Format) Encode(dst []byte, v any, path []string) error {
	vals := []any{v}
	if !f.Single() {
		tuple, ok := v.([]any)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "[]any")
		}
		if len(tuple) != len(f.Items) {
			return errors.InvalidData(errors.PhaseEncode, path,
				"tuple has "+strconv.Itoa(len(tuple))+" values, format "+f.String()+" needs "+strconv.Itoa(len(f.Items)))
		}
		vals = tuple
	}

	for i, it := range f.Items {
		if err := check(it, vals[i], path, f); err != nil {
			return err
		}
	}

	order := f.Order.ByteOrder()
	off := 0
	for i, it := range f.Items {
		encodeItem(it, order, dst[off:], vals[i])
		off += it.Width()
	}
	return nil
}

func check(it Item, v any, path []string, f *Format) error {
	switch {
	case it.Code == CodeBool:
		if _, ok := v.(bool); !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "bool")
		}
	case it.Code == CodeBytes:
		b, ok := asBytes(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "[]byte")
		}
		if len(b) > it.Len {
			return errors.ValueOutOfRange(path, len(b), f.String())
		}
	case it.Code.IsFloat():
		x, ok := asFloat(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), it.Code.String())
		}
		if it.Code == CodeFloat32 && !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > math.MaxFloat32 {
			return errors.ValueOutOfRange(path, v, f.String())
		}
	case it.Code.IsSigned():
		n, ok := asInt(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), it.Code.String())
		}
		bits := uint(it.Code.Width() * 8)
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if bits == 64 {
			lo, hi = math.MinInt64, math.MaxInt64
		}
		if !n.fits(lo, hi) {
			return errors.ValueOutOfRange(path, v, f.String())
		}
	case it.Code.IsUnsigned():
		n, ok := asInt(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), it.Code.String())
		}
		bits := uint(it.Code.Width() * 8)
		hi := uint64(math.MaxUint64)
		if bits < 64 {
			hi = uint64(1)<<bits - 1
		}
		if !n.fitsUnsigned(hi) {
			return errors.ValueOutOfRange(path, v, f.String())
		}
	}
	return nil
}

func encodeItem(it Item, order binary.ByteOrder, b []byte, v any) {
	switch it.Code {
	case CodeBool:
		if v.(bool) {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case CodeBytes:
		src, _ := asBytes(v)
		n := copy(b[:it.Len], src)
		clear(b[n:it.Len])
	case CodeFloat32:
		x, _ := asFloat(v)
		order.PutUint32(b, math.Float32bits(float32(x)))
	case CodeFloat64:
		x, _ := asFloat(v)
		order.PutUint64(b, math.Float64bits(x))
	default:
		n, _ := asInt(v)
		u := n.bits()
		switch it.Code.Width() {
		case 1:
			b[0] = byte(u)
		case 2:
			order.PutUint16(b, uint16(u))
		case 4:
			order.PutUint32(b, uint32(u))
		case 8:
			order.PutUint64(b, u)
		}
	}
}
