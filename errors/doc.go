// Package errors provides structured error types for the recview module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, record type name, format
// string and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindValueOutOfRange).
//		Path("header", "npoly").
//		Format("<i").
//		Detail("value does not fit in int32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidFormat(path, "<z", "unknown code 'z'")
//	err := errors.TruncatedBuffer(errors.PhaseDecode, path, 40, 20)
//
// Declaration-time kinds (invalid_format, layout_overflow) are programming
// errors. Instance-time kinds (truncated_buffer, unexpected_eof) are reported
// to the caller and never retried.
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on Kind regardless of Phase:
//
//	if errors.Is(err, recerrors.ErrUnexpectedEOF) { ... }
package errors
