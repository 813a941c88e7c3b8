package poly

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record"
)

func TestLayouts(t *testing.T) {
	for _, typ := range []*record.Type{HeaderType, NestedHeaderType} {
		if typ.Size() != HeaderSize {
			t.Errorf("%s size = %d, want %d", typ.Name(), typ.Size(), HeaderSize)
		}
	}
	if PointType.Size() != 16 {
		t.Errorf("Point size = %d, want 16", PointType.Size())
	}
}

func TestBoundingBox(t *testing.T) {
	box, err := BoundingBox(Sample())
	if err != nil {
		t.Fatal(err)
	}
	want := BBox{MinX: 0.5, MinY: 0.5, MaxX: 7.0, MaxY: 9.2}
	if box != want {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}

	if _, err := BoundingBox(nil); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidData}) {
		t.Errorf("empty input: got %v", err)
	}
	if _, err := BoundingBox([]Polygon{{}}); err == nil {
		t.Error("polygon without points should fail")
	}
}

func TestDefaultHeader(t *testing.T) {
	h, err := DefaultHeader(Sample())
	if err != nil {
		t.Fatal(err)
	}
	want := Header{Code: 0x1234, Box: BBox{0.5, 0.5, 7.0, 9.2}, NPoly: 3}
	if h != want {
		t.Errorf("DefaultHeader = %+v, want %+v", h, want)
	}
}

func TestHeaderBytes(t *testing.T) {
	h := Header{Code: 0x1234, Box: BBox{0.5, 0.5, 7.0, 9.2}, NPoly: 3}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) != HeaderSize {
		t.Fatalf("header length = %d", len(data))
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != 0x1234 {
		t.Errorf("code bytes = %#x", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(data[28:])); got != 9.2 {
		t.Errorf("max_y bytes = %v", got)
	}
	if got := binary.LittleEndian.Uint32(data[36:]); got != 3 {
		t.Errorf("npoly bytes = %d", got)
	}

	flat, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	nested, err := ReadNestedHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if flat != h || nested != h {
		t.Errorf("flat %+v nested %+v, want %+v", flat, nested, h)
	}
}

func TestReadPackedFile(t *testing.T) {
	// "<iddddi" header (0x1234, 0.5, 0.5, 7.0, 9.2, 1), then one polygon
	// holding the single point (0.5, 9.2).
	data := []byte{
		0x34, 0x12, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xe0, 0x3f,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xe0, 0x3f,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1c, 0x40,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x22, 0x40,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xe0, 0x3f,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x22, 0x40,
	}

	h, polys, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := Header{Code: 0x1234, Box: BBox{0.5, 0.5, 7.0, 9.2}, NPoly: 1}
	if h != want {
		t.Errorf("header = %+v, want %+v", h, want)
	}
	if diff := cmp.Diff([]Polygon{{{0.5, 9.2}}}, polys); diff != "" {
		t.Errorf("polygons (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := WriteHeader(&out, want); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), data[:HeaderSize]) {
		t.Errorf("WriteHeader = % x\nwant        % x", out.Bytes(), data[:HeaderSize])
	}
}

func TestNestedHeaderView(t *testing.T) {
	h, _ := DefaultHeader(Sample())
	rec, err := h.Record()
	if err != nil {
		t.Fatal(err)
	}

	nested, err := NestedHeaderType.FromBytes(rec.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	xy1, err := nested.Nested("xy1")
	if err != nil {
		t.Fatal(err)
	}
	xy2, _ := nested.Nested("xy2")

	code, _ := nested.Int("code")
	npoly, _ := nested.Int("npoly")
	got := append(append([]any{code}, append(xy1.AsTuple(), xy2.AsTuple()...)...), npoly)
	want := []any{int64(0x1234), 0.5, 0.5, 7.0, 9.2, int64(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested view (-want +got):\n%s", diff)
	}
}

func TestNegativeCount(t *testing.T) {
	rec, err := HeaderType.Pack(int32(1), 0.0, 0.0, 1.0, 1.0, int32(-1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(bytes.NewReader(rec.Bytes())); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidData}) {
		t.Errorf("ReadHeader: got %v", err)
	}
	if _, _, err := Read(bytes.NewReader(rec.Bytes())); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidData}) {
		t.Errorf("Read: got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Sample()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if want := HeaderSize + 3*4 + 10*16; buf.Len() != want {
		t.Errorf("file size = %d, want %d", buf.Len(), want)
	}

	h, polys, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if diff := cmp.Diff(Sample(), polys); diff != "" {
		t.Errorf("polygons (-want +got):\n%s", diff)
	}
	box, _ := BoundingBox(polys)
	if box != (BBox{0.5, 0.5, 7.0, 9.2}) || h.Box != box {
		t.Errorf("box %+v header box %+v", box, h.Box)
	}
	if buf.Len() != 0 {
		t.Errorf("%d trailing bytes", buf.Len())
	}
}

func TestPolygonPrefixIsPointCount(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Sample()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if got := binary.LittleEndian.Uint32(data[HeaderSize:]); got != 3 {
		t.Errorf("first polygon prefix = %d, want 3", got)
	}
	second := HeaderSize + 4 + 3*16
	if got := binary.LittleEndian.Uint32(data[second:]); got != 4 {
		t.Errorf("second polygon prefix = %d, want 4", got)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Sample()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	for _, n := range []int{10, HeaderSize + 2, len(data) - 1} {
		_, _, err := Read(bytes.NewReader(data[:n]))
		if !stderrors.Is(err, errors.ErrUnexpectedEOF) {
			t.Errorf("%d bytes: got %v, want unexpected EOF", n, err)
		}
	}
}

func TestReadMaxBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Sample()); err != nil {
		t.Fatal(err)
	}
	_, _, err := Read(&buf, record.WithMaxBytes(32))
	if !stderrors.Is(err, errors.ErrLayoutOverflow) {
		t.Errorf("got %v, want layout overflow", err)
	}
}

func TestReadLogsThroughRecordLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	record.SetLogger(zap.New(core))
	t.Cleanup(func() { record.SetLogger(nil) })

	var buf bytes.Buffer
	if err := Write(&buf, Sample()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Read(&buf); err != nil {
		t.Fatal(err)
	}

	for _, msg := range []string{"polygons written", "sequence read", "polygons read"} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("no %q entry", msg)
		}
	}
}
