package format

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/recview/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src       string
		inherited Order
		wantOrder Order
		explicit  bool
		width     int
		items     int
		canonical string
	}{
		{"i", OrderLittle, OrderLittle, false, 4, 1, "<i"},
		{"<i", OrderBig, OrderLittle, true, 4, 1, "<i"},
		{">d", OrderLittle, OrderBig, true, 8, 1, ">d"},
		{"!H", OrderLittle, OrderNetwork, true, 2, 1, "!H"},
		{"@q", OrderLittle, OrderNative, true, 8, 1, "@q"},
		{"dd", OrderBig, OrderBig, false, 16, 2, ">dd"},
		{"<2d", OrderLittle, OrderLittle, true, 16, 2, "<dd"},
		{"<iddddi", OrderLittle, OrderLittle, true, 40, 6, "<iddddi"},
		{"4s", OrderLittle, OrderLittle, false, 4, 1, "<4s"},
		{"0s", OrderLittle, OrderLittle, false, 0, 1, "<0s"},
		{"< b B ?", OrderLittle, OrderLittle, true, 3, 3, "<bB?"},
		{"lL", OrderLittle, OrderLittle, false, 8, 2, "<iI"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := Parse(tt.src, tt.inherited)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.src, err)
			}
			if f.Order != tt.wantOrder {
				t.Errorf("Order = %v, want %v", f.Order, tt.wantOrder)
			}
			if f.Explicit != tt.explicit {
				t.Errorf("Explicit = %v, want %v", f.Explicit, tt.explicit)
			}
			if f.Width != tt.width {
				t.Errorf("Width = %d, want %d", f.Width, tt.width)
			}
			if len(f.Items) != tt.items {
				t.Errorf("len(Items) = %d, want %d", len(f.Items), tt.items)
			}
			if got := f.String(); got != tt.canonical {
				t.Errorf("String() = %q, want %q", got, tt.canonical)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind errors.Kind
	}{
		{"", errors.KindInvalidFormat},
		{"<", errors.KindInvalidFormat},
		{"z", errors.KindInvalidFormat},
		{"<i>", errors.KindInvalidFormat},
		{"3", errors.KindInvalidFormat},
		{"0d", errors.KindInvalidFormat},
		{"99999999999999999999d", errors.KindLayoutOverflow},
		{"2147483647d", errors.KindLayoutOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, OrderLittle)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.src)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", e.Kind, tt.kind)
			}
		})
	}
}

func TestDecodeByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, 0x01020304)

	be, err := Parse(">I", OrderLittle)
	if err != nil {
		t.Fatal(err)
	}
	if got := be.Decode(buf); got != uint32(0x01020304) {
		t.Errorf("big endian decode = %#x, want 0x01020304", got)
	}

	le, err := Parse("<I", OrderLittle)
	if err != nil {
		t.Fatal(err)
	}
	if got := le.Decode(buf); got != uint32(0x04030201) {
		t.Errorf("little endian decode = %#x, want 0x04030201", got)
	}
}

func TestEncodeDecodeItems(t *testing.T) {
	f, err := Parse("<?bBhHiIqQfd3s", OrderLittle)
	if err != nil {
		t.Fatal(err)
	}
	in := []any{
		true, int8(-8), uint8(200), int16(-1000), uint16(60000),
		int32(-100000), uint32(4000000000), int64(math.MinInt64), uint64(math.MaxUint64),
		float32(1.5), 2.25, []byte("ab"),
	}
	buf := make([]byte, f.Width)
	if err := f.Encode(buf, in, nil); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := f.DecodeItems(buf)
	want := []any{
		true, int8(-8), uint8(200), int16(-1000), uint16(60000),
		int32(-100000), uint32(4000000000), int64(math.MinInt64), uint64(math.MaxUint64),
		float32(1.5), 2.25, []byte{'a', 'b', 0},
	}
	for i := range want {
		if wb, ok := want[i].([]byte); ok {
			if !bytes.Equal(out[i].([]byte), wb) {
				t.Errorf("item %d = %v, want %v", i, out[i], wb)
			}
			continue
		}
		if out[i] != want[i] {
			t.Errorf("item %d = %v (%T), want %v (%T)", i, out[i], out[i], want[i], want[i])
		}
	}
}

func TestEncodeRange(t *testing.T) {
	tests := []struct {
		format string
		value  any
		kind   errors.Kind
	}{
		{"B", 256, errors.KindValueOutOfRange},
		{"B", -1, errors.KindValueOutOfRange},
		{"b", 128, errors.KindValueOutOfRange},
		{"b", -129, errors.KindValueOutOfRange},
		{"i", int64(math.MaxInt32) + 1, errors.KindValueOutOfRange},
		{"I", uint64(math.MaxUint32) + 1, errors.KindValueOutOfRange},
		{"q", uint64(math.MaxInt64) + 1, errors.KindValueOutOfRange},
		{"Q", -1, errors.KindValueOutOfRange},
		{"f", 1e300, errors.KindValueOutOfRange},
		{"2s", "abc", errors.KindValueOutOfRange},
		{"i", 1.5, errors.KindTypeMismatch},
		{"?", 1, errors.KindTypeMismatch},
		{"d", "x", errors.KindTypeMismatch},
		{"dd", 1.0, errors.KindTypeMismatch},
		{"dd", []any{1.0}, errors.KindInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := Parse(tt.format, OrderLittle)
			if err != nil {
				t.Fatal(err)
			}
			buf := bytes.Repeat([]byte{0xAA}, f.Width)
			err = f.Encode(buf, tt.value, []string{"field"})
			if err == nil {
				t.Fatalf("Encode(%v) into %q expected error", tt.value, tt.format)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != tt.kind {
				t.Fatalf("got %v, want kind %v", err, tt.kind)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{0xAA}, f.Width)) {
				t.Error("failed encode modified the buffer")
			}
		})
	}
}

func TestEncodeBoundaries(t *testing.T) {
	tests := []struct {
		format string
		value  any
	}{
		{"b", -128},
		{"b", 127},
		{"B", 255},
		{"h", math.MinInt16},
		{"H", math.MaxUint16},
		{"i", math.MinInt32},
		{"I", uint32(math.MaxUint32)},
		{"q", int64(math.MinInt64)},
		{"Q", uint64(math.MaxUint64)},
		{"f", math.Inf(1)},
		{"d", 3},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := Parse(tt.format, OrderLittle)
			if err != nil {
				t.Fatal(err)
			}
			buf := make([]byte, f.Width)
			if err := f.Encode(buf, tt.value, nil); err != nil {
				t.Fatalf("Encode(%v) failed: %v", tt.value, err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	if v, ok := ToInt64(uint32(7)); !ok || v != 7 {
		t.Errorf("ToInt64(uint32(7)) = %d, %v", v, ok)
	}
	if _, ok := ToInt64(uint64(math.MaxUint64)); ok {
		t.Error("ToInt64 should reject MaxUint64")
	}
	if _, ok := ToUint64(int8(-1)); ok {
		t.Error("ToUint64 should reject negatives")
	}
	if v, ok := ToFloat64(float32(0.5)); !ok || v != 0.5 {
		t.Errorf("ToFloat64(float32(0.5)) = %v, %v", v, ok)
	}
	if _, ok := ToFloat64("x"); ok {
		t.Error("ToFloat64 should reject strings")
	}
}
