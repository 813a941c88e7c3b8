package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDeclare  Phase = "declare"  // record type declaration
	PhaseDecode   Phase = "decode"   // buffer to Go value
	PhaseEncode   Phase = "encode"   // Go value to buffer
	PhaseRead     Phase = "read"     // stream consumption
	PhaseSequence Phase = "sequence" // sized sequence interpretation
	PhaseSchema   Phase = "schema"   // schema loading and lookup
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidFormat         Kind = "invalid_format"
	KindLayoutOverflow        Kind = "layout_overflow"
	KindTruncatedBuffer       Kind = "truncated_buffer"
	KindUnexpectedEOF         Kind = "unexpected_eof"
	KindValueOutOfRange       Kind = "value_out_of_range"
	KindUnsupportedRecordType Kind = "unsupported_record_type"
	KindTypeMismatch          Kind = "type_mismatch"
	KindFieldUnknown          Kind = "field_unknown"
	KindInvalidData           Kind = "invalid_data"
)

// Sentinels for errors.Is. They carry no Phase, so they match an error of the
// same Kind raised in any phase.
var (
	ErrInvalidFormat         = &Error{Kind: KindInvalidFormat}
	ErrLayoutOverflow        = &Error{Kind: KindLayoutOverflow}
	ErrTruncatedBuffer       = &Error{Kind: KindTruncatedBuffer}
	ErrUnexpectedEOF         = &Error{Kind: KindUnexpectedEOF}
	ErrValueOutOfRange       = &Error{Kind: KindValueOutOfRange}
	ErrUnsupportedRecordType = &Error{Kind: KindUnsupportedRecordType}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Format string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Format != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Format != "" {
			b.WriteString("record ")
			b.WriteString(e.Type)
			b.WriteString(", format ")
			b.WriteString(e.Format)
		} else if e.Type != "" {
			b.WriteString("record ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("format ")
			b.WriteString(e.Format)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Format != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a Phase
// matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the record type name
func (b *Builder) Type(name string) *Builder {
	b.err.Type = name
	return b
}

// Format sets the offending format string
func (b *Builder) Format(f string) *Builder {
	b.err.Format = f
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidFormat creates an error for an unparseable format token
func InvalidFormat(path []string, format, detail string) *Error {
	return &Error{
		Phase:  PhaseDeclare,
		Kind:   KindInvalidFormat,
		Path:   path,
		Format: format,
		Detail: detail,
	}
}

// LayoutOverflow creates an error for a record whose total size cannot be represented
func LayoutOverflow(phase Phase, typeName string, size uint64, limit uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLayoutOverflow,
		Type:   typeName,
		Detail: fmt.Sprintf("size %d exceeds limit %d", size, limit),
		Value:  size,
	}
}

// TruncatedBuffer creates an error for a read past the end of a buffer
func TruncatedBuffer(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncatedBuffer,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, buffer has %d", need, have),
		Value:  have,
	}
}

// UnexpectedEOF creates an error for a stream that ended before a full record
func UnexpectedEOF(typeName string, need, got int, cause error) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnexpectedEOF,
		Type:   typeName,
		Detail: fmt.Sprintf("read %d of %d bytes", got, need),
		Value:  got,
		Cause:  cause,
	}
}

// ValueOutOfRange creates an error for a value the field's codec cannot represent
func ValueOutOfRange(path []string, value any, format string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindValueOutOfRange,
		Path:   path,
		Format: format,
		Detail: fmt.Sprintf("value %v not representable", value),
		Value:  value,
	}
}

// UnsupportedRecordType creates an error for an element or schema type that cannot be used
func UnsupportedRecordType(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedRecordType,
		Detail: what,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("got %s, want %s", got, want),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, typeName, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Type:   typeName,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
