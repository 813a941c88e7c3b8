package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record/internal/format"
)

// PrefixSize is the width of the little-endian element count that precedes
// every sequence payload in a stream.
const PrefixSize = 4

// DefaultMaxBytes bounds the payload ReadSequence accepts unless overridden
// with WithMaxBytes.
const DefaultMaxBytes = 64 << 20

// ElementSpec selects how sequence elements are interpreted: as scalar tuples
// (ScalarFormat) or as records (NestedType). No other implementations exist.
type ElementSpec interface {
	elementSpec()
}

type scalarSpec struct{ format string }

type nestedSpec struct{ typ *Type }

func (scalarSpec) elementSpec() {}
func (nestedSpec) elementSpec() {}

// ScalarFormat interprets each element as a tuple decoded with token.
// Without a marker the format is little endian.
func ScalarFormat(token string) ElementSpec { return scalarSpec{format: token} }

// NestedType interprets each element as a record of type t.
func NestedType(t *Type) ElementSpec { return nestedSpec{typ: t} }

// element is a resolved ElementSpec. Exactly one of codec and typ is set.
type element struct {
	codec *format.Format
	typ   *Type
	width int
}

func (e element) name() string {
	if e.typ != nil {
		return e.typ.name
	}
	return e.codec.String()
}

func resolve(spec ElementSpec) (element, error) {
	var e element
	switch s := spec.(type) {
	case scalarSpec:
		f, err := format.Parse(s.format, format.OrderLittle)
		if err != nil {
			return element{}, err
		}
		e = element{codec: f, width: f.Width}
	case nestedSpec:
		if s.typ == nil {
			return element{}, errors.UnsupportedRecordType(errors.PhaseSequence, "nested element type is nil")
		}
		e = element{typ: s.typ, width: s.typ.size}
	default:
		return element{}, errors.UnsupportedRecordType(errors.PhaseSequence, fmt.Sprintf("element spec %T", spec))
	}
	if e.width == 0 {
		return element{}, errors.UnsupportedRecordType(errors.PhaseSequence, "element "+e.name()+" has zero width")
	}
	return e, nil
}

type sequenceConfig struct {
	maxBytes int
}

// SequenceOption configures ReadSequence.
type SequenceOption func(*sequenceConfig)

// WithMaxBytes caps the payload size ReadSequence will allocate. A negative
// cap makes ReadSequence fail with KindValueOutOfRange.
func WithMaxBytes(n int) SequenceOption {
	return func(c *sequenceConfig) {
		c.maxBytes = n
	}
}

// Sequence is a run of fixed-width elements held in one owned buffer. Its
// element mode is fixed at construction.
type Sequence struct {
	buf  []byte
	elem element
	n    int
}

// ReadSequence reads a 4-byte little-endian element count followed by
// count*width payload bytes, each with a single full read.
func ReadSequence(r io.Reader, spec ElementSpec, opts ...SequenceOption) (*Sequence, error) {
	cfg := sequenceConfig{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBytes < 0 {
		return nil, errors.New(errors.PhaseSequence, errors.KindValueOutOfRange).
			Value(cfg.maxBytes).
			Detail("negative max bytes %d", cfg.maxBytes).
			Build()
	}

	elem, err := resolve(spec)
	if err != nil {
		return nil, err
	}

	var prefix [PrefixSize]byte
	if n, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, errors.UnexpectedEOF("sequence prefix", PrefixSize, n, err)
	}
	count := binary.LittleEndian.Uint32(prefix[:])

	size := uint64(count) * uint64(elem.width)
	if size > uint64(cfg.maxBytes) {
		return nil, errors.LayoutOverflow(errors.PhaseSequence, elem.name(), size, uint64(cfg.maxBytes))
	}

	buf := make([]byte, size)
	if n, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.UnexpectedEOF(elem.name(), int(size), n, err)
	}

	Logger().Debug("sequence read",
		zap.String("element", elem.name()),
		zap.Uint32("count", count),
		zap.Int("width", elem.width))

	return &Sequence{buf: buf, elem: elem, n: int(count)}, nil
}

// NewSequence interprets an in-memory payload without a prefix. The buffer
// is used as is and must be an exact multiple of the element width.
func NewSequence(buf []byte, spec ElementSpec) (*Sequence, error) {
	elem, err := resolve(spec)
	if err != nil {
		return nil, err
	}
	if len(buf)%elem.width != 0 {
		return nil, errors.New(errors.PhaseSequence, errors.KindTruncatedBuffer).
			Path(elem.name()).
			Value(len(buf)).
			Detail("%d bytes is not a multiple of element width %d", len(buf), elem.width).
			Build()
	}
	return &Sequence{buf: buf, elem: elem, n: len(buf) / elem.width}, nil
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return s.n }

// Width returns the element width in bytes.
func (s *Sequence) Width() int { return s.elem.width }

// IsNested reports whether elements are records rather than tuples.
func (s *Sequence) IsNested() bool { return s.elem.typ != nil }

// Bytes returns the payload without the prefix.
func (s *Sequence) Bytes() []byte { return s.buf }

func (s *Sequence) at(i int) []byte {
	off := i * s.elem.width
	return s.buf[off : off+s.elem.width]
}

func (s *Sequence) index(i int) error {
	if i < 0 || i >= s.n {
		return errors.TruncatedBuffer(errors.PhaseSequence, []string{s.elem.name()}, (i+1)*s.elem.width, len(s.buf))
	}
	return nil
}

func (s *Sequence) wantTuples() error {
	if s.elem.codec == nil {
		return errors.UnsupportedRecordType(errors.PhaseSequence, "sequence holds "+s.elem.typ.name+" records, not tuples")
	}
	return nil
}

func (s *Sequence) wantRecords() error {
	if s.elem.typ == nil {
		return errors.UnsupportedRecordType(errors.PhaseSequence, "sequence holds "+s.elem.codec.String()+" tuples, not records")
	}
	return nil
}

// Tuple decodes the i'th element of a scalar sequence.
func (s *Sequence) Tuple(i int) ([]any, error) {
	if err := s.wantTuples(); err != nil {
		return nil, err
	}
	if err := s.index(i); err != nil {
		return nil, err
	}
	return s.elem.codec.DecodeItems(s.at(i)), nil
}

// Record returns a view of the i'th element of a nested sequence.
func (s *Sequence) Record(i int) (*Record, error) {
	if err := s.wantRecords(); err != nil {
		return nil, err
	}
	if err := s.index(i); err != nil {
		return nil, err
	}
	return s.elem.typ.view(s.at(i)), nil
}

// Tuples iterates the elements of a scalar sequence. The iterator can be
// ranged over any number of times.
func (s *Sequence) Tuples() (iter.Seq[[]any], error) {
	if err := s.wantTuples(); err != nil {
		return nil, err
	}
	return func(yield func([]any) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(s.elem.codec.DecodeItems(s.at(i))) {
				return
			}
		}
	}, nil
}

// Records iterates the elements of a nested sequence. Each pass yields fresh
// views over the same bytes.
func (s *Sequence) Records() (iter.Seq[*Record], error) {
	if err := s.wantRecords(); err != nil {
		return nil, err
	}
	return func(yield func(*Record) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(s.elem.typ.view(s.at(i))) {
				return
			}
		}
	}, nil
}

// EncodeSequence encodes elems behind a count prefix. Scalar sequences take a
// []any tuple per element (or a bare value for single-value formats); nested
// sequences take a *Record of the element type or a []any of its field values.
func EncodeSequence(spec ElementSpec, elems []any) ([]byte, error) {
	elem, err := resolve(spec)
	if err != nil {
		return nil, err
	}
	if uint64(len(elems)) > math.MaxUint32 {
		return nil, errors.LayoutOverflow(errors.PhaseEncode, elem.name(), uint64(len(elems)), math.MaxUint32)
	}

	out := make([]byte, PrefixSize+len(elems)*elem.width)
	binary.LittleEndian.PutUint32(out, uint32(len(elems)))

	for i, v := range elems {
		dst := out[PrefixSize+i*elem.width : PrefixSize+(i+1)*elem.width]
		if elem.codec != nil {
			if err := elem.codec.Encode(dst, v, []string{elem.name(), fmt.Sprint(i)}); err != nil {
				return nil, err
			}
			continue
		}
		rec, err := elem.record(v)
		if err != nil {
			return nil, err
		}
		copy(dst, rec.buf)
	}
	return out, nil
}

func (e element) record(v any) (*Record, error) {
	switch x := v.(type) {
	case *Record:
		if x != nil && x.typ == e.typ {
			return x, nil
		}
	case []any:
		return e.typ.Pack(x...)
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, []string{e.typ.name}, valueTypeName(v), "*Record of "+e.typ.name)
}

// WriteSequence encodes elems like EncodeSequence and writes them to w.
func WriteSequence(w io.Writer, spec ElementSpec, elems []any) (int64, error) {
	data, err := EncodeSequence(spec, elems)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
