// Package layout computes packed byte layouts for record declarations.
//
// A declaration is an ordered list of fields, each either a scalar format
// string or a nested type of known size. The calculator assigns offsets as the
// running sum of preceding widths.
//
// # Layout Rules
//
//   - Fields are packed back to back: no alignment, no padding.
//   - A scalar field without a byte-order marker inherits the running order,
//     which starts at the declaration's default and changes whenever a field
//     carries an explicit marker.
//   - A nested field occupies exactly the nested type's size and does not
//     affect the running order.
//   - The total size may not exceed MaxSize.
//
// # Usage
//
//	info, err := layout.NewCalculator().Calculate("Point", format.OrderLittle, decls)
//	// info.Size, info.Slots available
//
// This package is internal to record.
package layout
