package record

import (
	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record/internal/format"
)

// Field is a field descriptor: a fixed byte range of its owning type plus
// either a scalar codec or a nested type. Fields are immutable.
type Field struct {
	owner  *Type
	codec  *format.Format
	nested *Type
	name   string
	offset int
	width  int
	index  int
	slot   int // child cache slot, -1 for scalar fields
}

func (f *Field) Name() string { return f.name }

// Offset is the byte offset within the owning record.
func (f *Field) Offset() int { return f.offset }

func (f *Field) Width() int { return f.width }

func (f *Field) Index() int { return f.index }

// Format returns the canonical scalar format with its byte-order marker, or
// "" for a nested field.
func (f *Field) Format() string {
	if f.codec == nil {
		return ""
	}
	return f.codec.String()
}

// Nested returns the field's record type, or nil for a scalar field.
func (f *Field) Nested() *Type { return f.nested }

func (f *Field) IsNested() bool { return f.nested != nil }

// Get decodes the field from r. Scalars decode to their Go value (int32,
// float64, []byte, ...), multi-value formats to []any, and nested fields to
// a *Record that is created on first access and reused afterwards.
func (f *Field) Get(r *Record) (any, error) {
	if err := f.bind(r, errors.PhaseDecode); err != nil {
		return nil, err
	}
	return f.decode(r), nil
}

// Set encodes v into the field's bytes in r. Nested fields accept a *Record
// of the nested type or a []any of its field values. On error r is unchanged.
func (f *Field) Set(r *Record, v any) error {
	if err := f.bind(r, errors.PhaseEncode); err != nil {
		return err
	}
	dst := r.buf[f.offset : f.offset+f.width]
	if f.nested == nil {
		return f.codec.Encode(dst, v, f.path())
	}

	switch x := v.(type) {
	case *Record:
		if x == nil || x.typ != f.nested {
			return errors.TypeMismatch(errors.PhaseEncode, f.path(), valueTypeName(v), "*Record of "+f.nested.name)
		}
		copy(dst, x.buf)
	case []any:
		packed, err := f.nested.Pack(x...)
		if err != nil {
			return err
		}
		copy(dst, packed.buf)
	default:
		return errors.TypeMismatch(errors.PhaseEncode, f.path(), valueTypeName(v), "*Record of "+f.nested.name)
	}
	return nil
}

func (f *Field) bind(r *Record, phase errors.Phase) error {
	if r == nil || r.typ != f.owner {
		return errors.TypeMismatch(phase, f.path(), recordTypeName(r), f.owner.name)
	}
	if end := f.offset + f.width; end > len(r.buf) {
		return errors.TruncatedBuffer(phase, f.path(), end, len(r.buf))
	}
	return nil
}

// decode assumes bind succeeded.
func (f *Field) decode(r *Record) any {
	if f.nested == nil {
		return f.codec.Decode(r.buf[f.offset : f.offset+f.width])
	}
	return r.child(f)
}

func (f *Field) path() []string {
	return []string{f.owner.name, f.name}
}

func recordTypeName(r *Record) string {
	if r == nil {
		return "nil"
	}
	return r.typ.name
}

var (
	toInt64   = format.ToInt64
	toUint64  = format.ToUint64
	toFloat64 = format.ToFloat64
)
