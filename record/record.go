package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/recview"
	"github.com/wippyai/recview/errors"
)

// Record is a typed view over exactly Type.Size() bytes. A record made by
// FromBytes or FromMemory borrows its buffer and must not outlive it; records
// from Read, New and Pack own theirs.
type Record struct {
	typ      *Type
	buf      []byte
	children []atomic.Pointer[Record]
}

func (t *Type) view(buf []byte) *Record {
	r := &Record{typ: t, buf: buf[:t.size:t.size]}
	if t.children > 0 {
		r.children = make([]atomic.Pointer[Record], t.children)
	}
	return r
}

// FromBytes returns a zero-copy view of buf[:t.Size()].
func (t *Type) FromBytes(buf []byte) (*Record, error) {
	if len(buf) < t.size {
		return nil, errors.TruncatedBuffer(errors.PhaseDecode, []string{t.name}, t.size, len(buf))
	}
	return t.view(buf), nil
}

// Read consumes exactly t.Size() bytes from r. A short stream yields a
// KindUnexpectedEOF error and no record; the stream position is then undefined.
func (t *Type) Read(r io.Reader) (*Record, error) {
	buf := make([]byte, t.size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, errors.UnexpectedEOF(t.name, t.size, n, err)
	}
	return t.view(buf), nil
}

// FromMemory views t.Size() bytes of mem at offset. Whether the view shares
// storage with mem depends on the Memory implementation.
func (t *Type) FromMemory(mem recview.Memory, offset uint32) (*Record, error) {
	data, err := mem.Read(offset, uint32(t.size))
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindTruncatedBuffer).
			Type(t.name).
			Cause(err).
			Detail("read %d bytes at offset %d", t.size, offset).
			Build()
	}
	return t.FromBytes(data)
}

// New returns a zeroed record that owns its buffer.
func (t *Type) New() *Record {
	return t.view(make([]byte, t.size))
}

// Pack encodes one value per field in declaration order into a new record.
func (t *Type) Pack(values ...any) (*Record, error) {
	if len(values) != len(t.fields) {
		return nil, errors.InvalidData(errors.PhaseEncode, []string{t.name},
			fmt.Sprintf("got %d values for %d fields", len(values), len(t.fields)))
	}
	r := t.New()
	for i, f := range t.fields {
		if err := f.Set(r, values[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Record) Type() *Type { return r.typ }

func (r *Record) field(name string, phase errors.Phase) (*Field, error) {
	f, ok := r.typ.FieldByName(name)
	if !ok {
		return nil, errors.FieldUnknown(phase, r.typ.name, name)
	}
	return f, nil
}

// Get decodes the named field. See Field.Get.
func (r *Record) Get(name string) (any, error) {
	f, err := r.field(name, errors.PhaseDecode)
	if err != nil {
		return nil, err
	}
	return f.Get(r)
}

// At decodes the i'th field in declaration order.
func (r *Record) At(i int) (any, error) {
	if i < 0 || i >= len(r.typ.fields) {
		return nil, errors.FieldUnknown(errors.PhaseDecode, r.typ.name, "#"+strconv.Itoa(i))
	}
	return r.typ.fields[i].Get(r)
}

// Int decodes an integer field as int64.
func (r *Record) Int(name string) (int64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "int64")
	}
	return n, nil
}

// Uint decodes a non-negative integer field as uint64.
func (r *Record) Uint(name string) (uint64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := toUint64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "uint64")
	}
	return n, nil
}

// Float decodes a numeric field as float64.
func (r *Record) Float(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	x, ok := toFloat64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "float64")
	}
	return x, nil
}

func (r *Record) Bool(name string) (bool, error) {
	v, err := r.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "bool")
	}
	return b, nil
}

// ByteString decodes an "Ns" field. The result is a copy.
func (r *Record) ByteString(name string) ([]byte, error) {
	v, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "[]byte")
	}
	return b, nil
}

// Nested returns the child record of a nested field.
func (r *Record) Nested(name string) (*Record, error) {
	v, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Record)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseDecode, []string{r.typ.name, name}, valueTypeName(v), "*Record")
	}
	return c, nil
}

// Set re-encodes the named field in place. See Field.Set.
func (r *Record) Set(name string, v any) error {
	f, err := r.field(name, errors.PhaseEncode)
	if err != nil {
		return err
	}
	return f.Set(r, v)
}

// AsTuple returns all field values in declaration order. Nested fields yield
// their *Record.
func (r *Record) AsTuple() []any {
	out := make([]any, len(r.typ.fields))
	for i, f := range r.typ.fields {
		out[i] = f.decode(r)
	}
	return out
}

// Bytes returns the record's underlying buffer without copying.
func (r *Record) Bytes() []byte { return r.buf }

// WriteTo writes the record's bytes to w.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.buf)
	return int64(n), err
}

// child returns the cached child record for a nested field, creating it on
// first access. Concurrent first accesses agree on a single child.
func (r *Record) child(f *Field) *Record {
	slot := &r.children[f.slot]
	if c := slot.Load(); c != nil {
		return c
	}
	c := f.nested.view(r.buf[f.offset : f.offset+f.width])
	if slot.CompareAndSwap(nil, c) {
		return c
	}
	return slot.Load()
}

// Equal reports whether r and o have the same type and equal decoded values.
// Buffer identity is irrelevant; NaN fields never compare equal.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.typ != o.typ {
		return false
	}
	for _, f := range r.typ.fields {
		if !valueEqual(f.decode(r), f.decode(o)) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Hash returns a structural hash consistent with Equal.
func (r *Record) Hash() uint64 {
	d := xxhash.New()
	r.hashInto(d)
	return d.Sum64()
}

func (r *Record) hashInto(d *xxhash.Digest) {
	_, _ = d.WriteString(r.typ.name)
	for _, f := range r.typ.fields {
		hashValue(d, f.decode(r))
	}
}

func hashValue(d *xxhash.Digest, v any) {
	var scratch [8]byte
	switch x := v.(type) {
	case *Record:
		x.hashInto(d)
		return
	case []any:
		for _, e := range x {
			hashValue(d, e)
		}
		return
	case []byte:
		_, _ = d.Write(x)
		return
	case bool:
		if x {
			scratch[0] = 1
		}
	case float32:
		binary.LittleEndian.PutUint64(scratch[:], floatBits(float64(x)))
	case float64:
		binary.LittleEndian.PutUint64(scratch[:], floatBits(x))
	default:
		if n, ok := toInt64(v); ok {
			binary.LittleEndian.PutUint64(scratch[:], uint64(n))
		} else if u, ok := toUint64(v); ok {
			binary.LittleEndian.PutUint64(scratch[:], u)
		}
	}
	_, _ = d.Write(scratch[:])
}

// floatBits maps -0 and +0 to the same bits since they compare equal.
func floatBits(x float64) uint64 {
	if x == 0 {
		return 0
	}
	return math.Float64bits(x)
}

// String formats the record as Name(field=value, ...).
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.name)
	b.WriteByte('(')
	for i, f := range r.typ.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.name)
		b.WriteByte('=')
		fmt.Fprint(&b, f.decode(r))
	}
	b.WriteByte(')')
	return b.String()
}

func valueTypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
