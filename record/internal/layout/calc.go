package layout

import (
	"math"
	"sync"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record/internal/format"
)

// MaxSize is the largest record size the engine lays out.
const MaxSize = math.MaxInt32

// Sized is a previously declared type usable as a nested field.
type Sized interface {
	Name() string
	Size() int
}

// Decl is one entry of a declaration list. Exactly one of Format and Nested is set.
type Decl struct {
	Nested Sized
	Name   string
	Format string
}

// Slot is the computed placement of a declared field.
type Slot struct {
	Codec  *format.Format
	Nested Sized
	Name   string
	Offset int
	Width  int
}

type Info struct {
	Slots []Slot
	Size  int
}

type formatKey struct {
	src   string
	order format.Order
}

type Calculator struct {
	formats sync.Map // formatKey -> *format.Format
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate lays out decls in order starting at offset zero.
func (c *Calculator) Calculate(typeName string, order format.Order, decls []Decl) (Info, error) {
	slots := make([]Slot, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	running := order
	offset := uint64(0)

	for _, d := range decls {
		path := []string{typeName, d.Name}

		if d.Name == "" {
			return Info{}, errors.InvalidFormat([]string{typeName}, d.Format, "field name is empty")
		}
		if _, dup := seen[d.Name]; dup {
			return Info{}, errors.InvalidFormat(path, d.Format, "duplicate field name")
		}
		seen[d.Name] = struct{}{}

		slot := Slot{Name: d.Name, Offset: int(offset)}

		switch {
		case d.Nested != nil && d.Format != "":
			return Info{}, errors.InvalidFormat(path, d.Format, "field is both scalar and nested")
		case d.Nested != nil:
			slot.Nested = d.Nested
			slot.Width = d.Nested.Size()
		default:
			f, err := c.parse(d.Format, running)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					e.Path = path
				}
				return Info{}, err
			}
			if f.Explicit {
				running = f.Order
			}
			slot.Codec = f
			slot.Width = f.Width
		}

		offset += uint64(slot.Width)
		if offset > MaxSize {
			return Info{}, errors.LayoutOverflow(errors.PhaseDeclare, typeName, offset, MaxSize)
		}
		slots = append(slots, slot)
	}

	return Info{Slots: slots, Size: int(offset)}, nil
}

// parse returns a shared parsed format; a *format.Format is never mutated
// after Parse returns.
func (c *Calculator) parse(src string, order format.Order) (*format.Format, error) {
	key := formatKey{src: src, order: order}
	if cached, ok := c.formats.Load(key); ok {
		return cached.(*format.Format), nil
	}
	f, err := format.Parse(src, order)
	if err != nil {
		return nil, err
	}
	actual, _ := c.formats.LoadOrStore(key, f)
	return actual.(*format.Format), nil
}
