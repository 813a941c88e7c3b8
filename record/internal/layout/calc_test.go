package layout

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record/internal/format"
)

type fixed struct {
	name string
	size int
}

func (f fixed) Name() string { return f.name }
func (f fixed) Size() int    { return f.size }

func TestCalculateFlat(t *testing.T) {
	c := NewCalculator()

	info, err := c.Calculate("PolyHeader", format.OrderLittle, []Decl{
		{Name: "code", Format: "<i"},
		{Name: "min_x", Format: "d"},
		{Name: "min_y", Format: "d"},
		{Name: "max_x", Format: "d"},
		{Name: "max_y", Format: "d"},
		{Name: "npoly", Format: "i"},
	})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if info.Size != 40 {
		t.Errorf("size: got %d, want 40", info.Size)
	}

	wantOffsets := []int{0, 4, 12, 20, 28, 36}
	for i, s := range info.Slots {
		if s.Offset != wantOffsets[i] {
			t.Errorf("%s offset: got %d, want %d", s.Name, s.Offset, wantOffsets[i])
		}
	}
}

func TestCalculateNested(t *testing.T) {
	c := NewCalculator()
	point := fixed{name: "Point", size: 16}

	info, err := c.Calculate("NestedHeader", format.OrderLittle, []Decl{
		{Name: "code", Format: "i"},
		{Name: "xy1", Nested: point},
		{Name: "xy2", Nested: point},
		{Name: "npoly", Format: "i"},
	})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if info.Size != 40 {
		t.Errorf("size: got %d, want 40", info.Size)
	}
	if info.Slots[2].Offset != 20 || info.Slots[2].Width != 16 {
		t.Errorf("xy2: got offset %d width %d, want 20/16", info.Slots[2].Offset, info.Slots[2].Width)
	}
	if info.Slots[1].Codec != nil {
		t.Error("nested slot should not carry a codec")
	}
}

func TestCalculateRunningOrder(t *testing.T) {
	c := NewCalculator()

	info, err := c.Calculate("Mixed", format.OrderLittle, []Decl{
		{Name: "a", Format: "H"},
		{Name: "b", Format: ">H"},
		{Name: "c", Format: "H"},
		{Name: "d", Format: "<H"},
		{Name: "e", Format: "H"},
	})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	want := []format.Order{format.OrderLittle, format.OrderBig, format.OrderBig, format.OrderLittle, format.OrderLittle}
	for i, s := range info.Slots {
		if s.Codec.Order != want[i] {
			t.Errorf("%s order: got %v, want %v", s.Name, s.Codec.Order, want[i])
		}
	}
}

func TestCalculateDefaultOrder(t *testing.T) {
	c := NewCalculator()

	info, err := c.Calculate("Net", format.OrderNetwork, []Decl{{Name: "port", Format: "H"}})
	if err != nil {
		t.Fatal(err)
	}
	if info.Slots[0].Codec.Order != format.OrderNetwork {
		t.Errorf("order: got %v, want network", info.Slots[0].Codec.Order)
	}
}

func TestCalculateNoOverlap(t *testing.T) {
	c := NewCalculator()
	info, err := c.Calculate("Wide", format.OrderLittle, []Decl{
		{Name: "a", Format: "b"},
		{Name: "b", Format: "q"},
		{Name: "c", Format: "3s"},
		{Name: "d", Nested: fixed{name: "X", size: 5}},
		{Name: "e", Format: "fd"},
	})
	if err != nil {
		t.Fatal(err)
	}

	sum := 0
	for i, s := range info.Slots {
		sum += s.Width
		for j := i + 1; j < len(info.Slots); j++ {
			o := info.Slots[j]
			if s.Offset < o.Offset+o.Width && o.Offset < s.Offset+s.Width && s.Width > 0 && o.Width > 0 {
				t.Errorf("fields %s and %s overlap", s.Name, o.Name)
			}
		}
	}
	if sum != info.Size {
		t.Errorf("sum of widths %d != size %d", sum, info.Size)
	}
}

func TestCalculateErrors(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name  string
		decls []Decl
		kind  errors.Kind
	}{
		{"unknown code", []Decl{{Name: "a", Format: "z"}}, errors.KindInvalidFormat},
		{"empty format", []Decl{{Name: "a"}}, errors.KindInvalidFormat},
		{"empty name", []Decl{{Format: "i"}}, errors.KindInvalidFormat},
		{"duplicate", []Decl{{Name: "a", Format: "i"}, {Name: "a", Format: "i"}}, errors.KindInvalidFormat},
		{"both", []Decl{{Name: "a", Format: "i", Nested: fixed{size: 4}}}, errors.KindInvalidFormat},
		{"overflow", []Decl{
			{Name: "a", Format: "1073741824s"},
			{Name: "b", Format: "1073741824s"},
		}, errors.KindLayoutOverflow},
		{"nested overflow", []Decl{
			{Name: "a", Nested: fixed{name: "Huge", size: MaxSize}},
			{Name: "b", Format: "B"},
		}, errors.KindLayoutOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Calculate("T", format.OrderLittle, tt.decls)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", e.Kind, tt.kind)
			}
			if e.Phase != errors.PhaseDeclare {
				t.Errorf("Phase = %v, want declare", e.Phase)
			}
		})
	}
}

func TestCalculateFormatCache(t *testing.T) {
	c := NewCalculator()

	a, err := c.Calculate("A", format.OrderLittle, []Decl{{Name: "x", Format: "d"}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Calculate("B", format.OrderLittle, []Decl{{Name: "y", Format: "d"}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Slots[0].Codec != b.Slots[0].Codec {
		t.Error("identical formats should share a parsed codec")
	}

	big, err := c.Calculate("C", format.OrderBig, []Decl{{Name: "z", Format: "d"}})
	if err != nil {
		t.Fatal(err)
	}
	if big.Slots[0].Codec == a.Slots[0].Codec {
		t.Error("formats under different inherited orders must not share a codec")
	}
}
