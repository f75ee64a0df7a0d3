package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // plan construction from Go types
	PhaseEncode   Phase = "encode"   // Go to wire
	PhaseDecode   Phase = "decode"   // wire to Go
	PhaseRegister Phase = "register" // enum, flag, remote and mapping registration
)

// Kind categorizes the error
type Kind string

const (
	KindIO            Kind = "io"
	KindUnexpectedEOF Kind = "unexpected_eof"
	KindTooBig        Kind = "too_big"
	KindInvalidUTF16  Kind = "invalid_utf16"
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindInvalidEnum   Kind = "invalid_enum"
	KindInvalidConst  Kind = "invalid_const"
	KindCustom        Kind = "custom"
	KindTypeMismatch  Kind = "type_mismatch"
	KindUnsupported   Kind = "unsupported"
	KindInvalidTag    Kind = "invalid_tag"
	KindInvalidData   Kind = "invalid_data"
	KindNilPointer    Kind = "nil_pointer"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Want     any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
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

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Want sets the expected value
func (b *Builder) Want(v any) *Builder {
	b.err.Want = v
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

// IO wraps a stream failure, classifying end-of-stream separately
func IO(phase Phase, cause error) *Error {
	var classified *Error
	if stderrors.As(cause, &classified) {
		return classified
	}
	if stderrors.Is(cause, io.EOF) || stderrors.Is(cause, io.ErrUnexpectedEOF) {
		return UnexpectedEOF(phase)
	}
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		Cause: cause,
	}
}

// UnexpectedEOF creates an end-of-stream error
func UnexpectedEOF(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnexpectedEOF,
		Detail: "unexpected end of stream",
	}
}

// TooBig creates a length overflow error for a collection or string
func TooBig(phase Phase, length uint64, width string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTooBig,
		WireType: width,
		Detail:   fmt.Sprintf("length %d does not fit %s", length, width),
		Value:    length,
	}
}

// InvalidUTF16 creates an unpaired surrogate error
func InvalidUTF16(phase Phase, unit uint16) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF16,
		Detail: fmt.Sprintf("unpaired surrogate 0x%04x", unit),
		Value:  unit,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidEnum creates an unknown discriminant error carrying the raw value
func InvalidEnum(phase Phase, typeName string, raw any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		GoType: typeName,
		Detail: fmt.Sprintf("invalid %s enum variant %v", typeName, raw),
		Value:  raw,
	}
}

// InvalidConst creates a literal constant mismatch error
func InvalidConst(phase Phase, want, got any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidConst,
		Detail: fmt.Sprintf("invalid constant - wanted: %#v - got: %#v", want, got),
		Want:   want,
		Value:  got,
	}
}

// Custom wraps a failing caller-supplied mapping or codec
func Custom(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCustom,
		GoType: name,
		Detail: "custom conversion failed",
		Cause:  cause,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
	}
}

// Unsupported creates an unsupported type error
func Unsupported(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
	}
}

// InvalidTag creates a malformed struct tag error
func InvalidTag(path []string, tag string, detail string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidTag,
		Path:   path,
		Detail: fmt.Sprintf("%s: %q", detail, tag),
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

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
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

// WithPath prefixes the path of err with the given segment. Non-structured
// errors are returned unchanged.
func WithPath(err error, segment string) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	e.Path = append([]string{segment}, e.Path...)
	return err
}

// From returns the first structured error in err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// KindOf returns the kind of the first structured error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !stderrors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsUnexpectedEOF reports whether err is an end-of-stream condition. Only
// this condition ends unbounded sequences and triggers default values.
func IsUnexpectedEOF(err error) bool {
	return IsKind(err, KindUnexpectedEOF)
}
