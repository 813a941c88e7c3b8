package record

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record/internal/format"
	"github.com/wippyai/recview/record/internal/layout"
)

// ByteOrder is the default byte-order marker of a record type.
type ByteOrder byte

const (
	LittleEndian ByteOrder = '<'
	BigEndian    ByteOrder = '>'
	Network      ByteOrder = '!'
	Native       ByteOrder = '@'
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	case Network:
		return "network"
	case Native:
		return "native"
	}
	return "ByteOrder(" + strconv.QuoteRune(rune(o)) + ")"
}

var calc = layout.NewCalculator()

// Builder collects an ordered field list. The first error encountered is
// reported by Build.
type Builder struct {
	err    error
	name   string
	decls  []layout.Decl
	nested []*Type
	order  ByteOrder
}

// NewBuilder starts the declaration of a record type. The default byte
// order is little endian.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, order: LittleEndian}
}

// Order sets the byte order for scalar fields that carry no marker of their own.
func (b *Builder) Order(o ByteOrder) *Builder {
	b.order = o
	return b
}

// Scalar appends a field decoded with a format token such as "<i", "d" or "8s".
func (b *Builder) Scalar(name, token string) *Builder {
	b.decls = append(b.decls, layout.Decl{Name: name, Format: token})
	b.nested = append(b.nested, nil)
	return b
}

// Nested appends a field holding a complete record of type t.
func (b *Builder) Nested(name string, t *Type) *Builder {
	if t == nil {
		if b.err == nil {
			b.err = errors.UnsupportedRecordType(errors.PhaseDeclare, "nested field "+strconv.Quote(name)+" has no type")
		}
		return b
	}
	b.decls = append(b.decls, layout.Decl{Name: name, Nested: t})
	b.nested = append(b.nested, t)
	return b
}

// Build computes the layout and returns the immutable type.
func (b *Builder) Build() (*Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, errors.InvalidFormat(nil, "", "type name is empty")
	}
	order, ok := format.OrderFromMarker(byte(b.order))
	if !ok {
		return nil, errors.New(errors.PhaseDeclare, errors.KindInvalidFormat).
			Type(b.name).
			Detail("unknown byte order %s", b.order).
			Build()
	}

	info, err := calc.Calculate(b.name, order, b.decls)
	if err != nil {
		return nil, err
	}

	t := &Type{
		name:   b.name,
		order:  b.order,
		size:   info.Size,
		fields: make([]*Field, len(info.Slots)),
		byName: make(map[string]int, len(info.Slots)),
	}
	for i, s := range info.Slots {
		f := &Field{
			owner:  t,
			name:   s.Name,
			offset: s.Offset,
			width:  s.Width,
			index:  i,
			slot:   -1,
			codec:  s.Codec,
			nested: b.nested[i],
		}
		if f.nested != nil {
			f.slot = t.children
			t.children++
		}
		t.fields[i] = f
		t.byName[s.Name] = i
	}

	Logger().Debug("record type declared",
		zap.String("type", t.name),
		zap.Int("size", t.size),
		zap.Int("fields", len(t.fields)),
		zap.Stringer("order", t.order))

	return t, nil
}

// MustBuild is like Build but panics on a declaration error.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Type is a declared record layout. It is immutable and safe for concurrent use.
type Type struct {
	byName   map[string]int
	name     string
	fields   []*Field
	size     int
	children int
	order    ByteOrder
}

func (t *Type) Name() string { return t.name }

// Size is the encoded size in bytes.
func (t *Type) Size() int { return t.size }

func (t *Type) Order() ByteOrder { return t.order }

func (t *Type) NumField() int { return len(t.fields) }

// Field returns the i'th field in declaration order. It panics if i is out of range.
func (t *Type) Field(i int) *Field { return t.fields[i] }

func (t *Type) FieldByName(name string) (*Field, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.fields[i], true
}

// Fields returns the fields in declaration order.
func (t *Type) Fields() []*Field {
	out := make([]*Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// String describes the layout, e.g. "Point{x <d @0, y <d @8} 16 bytes".
func (t *Type) String() string {
	var b strings.Builder
	b.WriteString(t.name)
	b.WriteByte('{')
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.name)
		b.WriteByte(' ')
		if f.nested != nil {
			b.WriteString(f.nested.name)
		} else {
			b.WriteString(f.codec.String())
		}
		b.WriteString(" @")
		b.WriteString(strconv.Itoa(f.offset))
	}
	b.WriteString("} ")
	b.WriteString(strconv.Itoa(t.size))
	b.WriteString(" bytes")
	return b.String()
}
