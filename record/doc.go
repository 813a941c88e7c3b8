// Package record declares fixed-layout binary record types and decodes their
// fields on demand from a backing buffer.
//
// # Declaring Types
//
// A Builder takes an ordered field list. Each field is either a scalar format
// token or a previously built nested Type:
//
//	point := record.NewBuilder("Point").
//	    Scalar("x", "<d").
//	    Scalar("y", "d").
//	    MustBuild()
//
//	header := record.NewBuilder("Header").
//	    Scalar("code", "<i").
//	    Nested("xy1", point).
//	    Nested("xy2", point).
//	    Scalar("npoly", "i").
//	    MustBuild()
//
// Build computes every offset once. Fields are packed with no padding, so
// Size is the sum of the field widths. Declaration errors (KindInvalidFormat,
// KindLayoutOverflow, KindUnsupportedRecordType) are returned by Build and
// panic from MustBuild.
//
// # Format Tokens
//
//	?  bool      1      b  int8     1      B  uint8    1
//	h  int16     2      H  uint16   2      i  int32    4
//	l  int32     4      I  uint32   4      L  uint32   4
//	q  int64     8      Q  uint64   8      f  float32  4
//	d  float64   8      Ns []byte   N
//
// A repeat count may precede a code ("2d" is "dd"). A token with more than one
// value decodes to []any. A leading '<', '>', '!' or '@' sets the byte order
// for the field and for later fields in the same list that omit a marker.
//
// # Records
//
// A Record is a view of exactly Size bytes. FromBytes and FromMemory borrow
// their buffer; Read, New and Pack allocate one. Field access decodes from the
// buffer on every call except nested fields, whose child Record is created on
// first access and then reused by the same Record.
//
// Set validates and re-encodes a single field in place. A failed Set leaves
// the buffer untouched.
//
// # Sequences
//
// ReadSequence reads a 4-byte little-endian element count and then count
// elements of fixed width. The element count, not a byte length, is the prefix
// written by EncodeSequence and WriteSequence. Elements are either scalar
// tuples (ScalarFormat) or records (NestedType); a Sequence answers only in the
// mode it was created with.
package record
