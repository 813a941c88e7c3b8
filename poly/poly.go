package poly

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record"
)

// FileCode is the code written by DefaultHeader.
const FileCode int32 = 0x1234

// HeaderSize is the encoded header size in bytes.
const HeaderSize = 40

// PointFormat encodes one point as an (x, y) tuple.
const PointFormat = "<dd"

// PointType is a single (x, y) point.
var PointType = record.NewBuilder("Point").
	Scalar("x", "<d").
	Scalar("y", "d").
	MustBuild()

// HeaderType is the flat header layout.
var HeaderType = record.NewBuilder("PolyHeader").
	Scalar("code", "<i").
	Scalar("min_x", "d").
	Scalar("min_y", "d").
	Scalar("max_x", "d").
	Scalar("max_y", "d").
	Scalar("npoly", "i").
	MustBuild()

// NestedHeaderType views the same 40 bytes with the box corners as points.
var NestedHeaderType = record.NewBuilder("NestedPolyHeader").
	Scalar("code", "<i").
	Nested("xy1", PointType).
	Nested("xy2", PointType).
	Scalar("npoly", "i").
	MustBuild()

type Point struct {
	X, Y float64
}

type Polygon []Point

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Header is the decoded file header.
type Header struct {
	Code  int32
	Box   BBox
	NPoly int32
}

// Sample returns three small polygons with bounding box (0.5, 0.5, 7.0, 9.2).
func Sample() []Polygon {
	return []Polygon{
		{{1.0, 2.5}, {3.5, 4.0}, {2.5, 1.5}},
		{{7.0, 1.2}, {5.1, 3.0}, {0.5, 7.5}, {0.8, 9.0}},
		{{3.4, 5.3}, {1.2, 0.5}, {4.6, 9.2}},
	}
}

// BoundingBox returns the box enclosing every point of polys.
func BoundingBox(polys []Polygon) (BBox, error) {
	box := BBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	n := 0
	for _, p := range polys {
		for _, pt := range p {
			box.MinX = min(box.MinX, pt.X)
			box.MinY = min(box.MinY, pt.Y)
			box.MaxX = max(box.MaxX, pt.X)
			box.MaxY = max(box.MaxY, pt.Y)
			n++
		}
	}
	if n == 0 {
		return BBox{}, errors.InvalidData(errors.PhaseEncode, []string{"polygons"}, "no points to bound")
	}
	return box, nil
}

// DefaultHeader builds a header with FileCode, the bounding box of polys and
// their count.
func DefaultHeader(polys []Polygon) (Header, error) {
	box, err := BoundingBox(polys)
	if err != nil {
		return Header{}, err
	}
	if len(polys) > math.MaxInt32 {
		return Header{}, errors.ValueOutOfRange([]string{"PolyHeader", "npoly"}, len(polys), "<i")
	}
	return Header{Code: FileCode, Box: box, NPoly: int32(len(polys))}, nil
}

// Record packs h into a new header record.
func (h Header) Record() (*record.Record, error) {
	return HeaderType.Pack(h.Code, h.Box.MinX, h.Box.MinY, h.Box.MaxX, h.Box.MaxY, h.NPoly)
}

// WriteHeader writes the 40-byte header.
func WriteHeader(w io.Writer, h Header) error {
	rec, err := h.Record()
	if err != nil {
		return err
	}
	_, err = rec.WriteTo(w)
	return err
}

// ReadHeader reads a header through the flat header layout.
func ReadHeader(r io.Reader) (Header, error) {
	rec, err := HeaderType.Read(r)
	if err != nil {
		return Header{}, err
	}
	return headerFromRecord(rec)
}

func headerFromRecord(rec *record.Record) (Header, error) {
	v := rec.AsTuple()
	h := Header{
		Code: v[0].(int32),
		Box: BBox{
			MinX: v[1].(float64),
			MinY: v[2].(float64),
			MaxX: v[3].(float64),
			MaxY: v[4].(float64),
		},
		NPoly: v[5].(int32),
	}
	return h, checkCount(h.NPoly)
}

// ReadNestedHeader reads a header through the nested layout, where the box
// corners are Point records.
func ReadNestedHeader(r io.Reader) (Header, error) {
	rec, err := NestedHeaderType.Read(r)
	if err != nil {
		return Header{}, err
	}
	return nestedFromRecord(rec)
}

func nestedFromRecord(rec *record.Record) (Header, error) {
	v := rec.AsTuple()
	lo := v[1].(*record.Record).AsTuple()
	hi := v[2].(*record.Record).AsTuple()
	h := Header{
		Code: v[0].(int32),
		Box: BBox{
			MinX: lo[0].(float64),
			MinY: lo[1].(float64),
			MaxX: hi[0].(float64),
			MaxY: hi[1].(float64),
		},
		NPoly: v[3].(int32),
	}
	return h, checkCount(h.NPoly)
}

func checkCount(n int32) error {
	if n < 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("PolyHeader", "npoly").
			Value(n).
			Detail("negative polygon count %d", n).
			Build()
	}
	return nil
}

// Write writes DefaultHeader(polys) followed by every polygon.
func Write(w io.Writer, polys []Polygon) error {
	h, err := DefaultHeader(polys)
	if err != nil {
		return err
	}
	if err := WriteHeader(w, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range polys {
		elems := make([]any, len(p))
		for j, pt := range p {
			elems[j] = []any{pt.X, pt.Y}
		}
		if _, err := record.WriteSequence(w, record.ScalarFormat(PointFormat), elems); err != nil {
			return fmt.Errorf("write polygon %d: %w", i, err)
		}
	}

	record.Logger().Debug("polygons written", zap.Int("polygons", len(polys)), zap.Int32("code", h.Code))
	return nil
}

// Read reads a header and its polygons. Points are decoded as Point records.
func Read(r io.Reader, opts ...record.SequenceOption) (Header, []Polygon, error) {
	h, err := ReadNestedHeader(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}

	polys := make([]Polygon, 0, min(int(h.NPoly), 1024))
	for i := range int(h.NPoly) {
		seq, err := record.ReadSequence(r, record.NestedType(PointType), opts...)
		if err != nil {
			return Header{}, nil, fmt.Errorf("read polygon %d: %w", i, err)
		}
		points, err := seq.Records()
		if err != nil {
			return Header{}, nil, err
		}
		p := make(Polygon, 0, seq.Len())
		for pt := range points {
			v := pt.AsTuple()
			p = append(p, Point{X: v[0].(float64), Y: v[1].(float64)})
		}
		polys = append(polys, p)
	}

	record.Logger().Debug("polygons read", zap.Int32("code", h.Code), zap.Int("polygons", len(polys)))
	return h, polys, nil
}
