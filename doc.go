// Package recview reads and writes fixed-layout binary records by decoding
// field values on demand directly from a backing byte buffer.
//
// A record type is declared once from an ordered field list. The layout engine
// computes every field's byte offset and codec at declaration time, so field
// access is a slice and a decode with no intermediate object graph.
//
// # Architecture Overview
//
//	recview/             Root package with the Memory interface
//	├── record/          Types, field descriptors, records and sized sequences
//	│   └── internal/
//	│       ├── format/  Scalar codec: format tokens, byte orders, encode/decode
//	│       └── layout/  Offset and size computation for declaration lists
//	├── errors/          Structured error types
//	├── schema/          Named type registries from YAML documents and WIT records
//	├── poly/            Polygon file format built on record types
//	├── wasmmem/         wazero linear memory adapter
//	└── cmd/polyview/    Command-line polygon file viewer
//
// # Quick Start
//
// Declare a type and view a buffer through it:
//
//	header := record.NewBuilder("Header").
//	    Scalar("code", "<i").
//	    Scalar("min_x", "d").
//	    Scalar("min_y", "d").
//	    Scalar("max_x", "d").
//	    Scalar("max_y", "d").
//	    Scalar("npoly", "i").
//	    MustBuild()
//
//	rec, err := header.Read(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, _ := rec.Int("npoly")
//
// Read a count-prefixed run of points:
//
//	seq, err := record.ReadSequence(f, record.ScalarFormat("<dd"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	points, _ := seq.Tuples()
//	for pt := range points {
//	    fmt.Println(pt[0], pt[1])
//	}
//
// # Byte Order
//
// Format tokens follow the usual binary packing codes (i, I, q, d, s, ...).
// A leading '<', '>', '!' or '@' marker selects the byte order. A field
// without a marker inherits the order of the closest preceding field that had
// one, or the type's default order. '@' means host order with standard sizes;
// no alignment padding is ever inserted.
//
// # Thread Safety
//
// Types are immutable and safe for concurrent use. Concurrent reads of one
// Record are safe. Record.Set must not race with readers of the same bytes.
package recview
