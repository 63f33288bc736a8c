package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the handle lifecycle the error occurred
type Phase string

const (
	PhaseCreate   Phase = "create"   // registration and platform bind
	PhaseRevoke   Phase = "revoke"   // deactivation and release
	PhaseSweep    Phase = "sweep"    // stale-age scanning
	PhaseBind     Phase = "bind"     // scoped binding operations
	PhaseConsume  Phase = "consume"  // handle consumption by a renderer
	PhaseTeardown Phase = "teardown" // full-session shutdown
)

// Kind categorizes the error
type Kind string

const (
	KindEmptyResource   Kind = "empty_resource"
	KindInvalidResource Kind = "invalid_resource"
	KindUnknownHandle   Kind = "unknown_handle"
	KindCleanupCallback Kind = "cleanup_callback"
	KindConsumption     Kind = "consumption"
	KindRetryExhausted  Kind = "retry_exhausted"
)

// Error is the structured error type used throughout blobkit
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Handle string
	Owner  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != "" {
		b.WriteString(" handle ")
		b.WriteString(e.Handle)
	}

	if e.Owner != "" {
		b.WriteString(" owner ")
		b.WriteString(e.Owner)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Handle sets the handle the error refers to
func (b *Builder) Handle(h string) *Builder {
	b.err.Handle = h
	return b
}

// Owner sets the owning consumer id
func (b *Builder) Owner(o string) *Builder {
	b.err.Owner = o
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

// EmptyResource creates a zero-size rejection error
func EmptyResource(owner string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindEmptyResource,
		Owner:  owner,
		Detail: "resource has zero bytes",
	}
}

// InvalidResource creates a rejected-input error for nil or malformed input
func InvalidResource(owner, detail string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindInvalidResource,
		Owner:  owner,
		Detail: detail,
	}
}

// UnknownHandle creates an internal unknown-handle error.
// Never surfaced at the API boundary; revocation paths absorb it as a no-op.
func UnknownHandle(phase Phase, handle string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownHandle,
		Handle: handle,
		Detail: "handle is not tracked",
	}
}

// CleanupFailed wraps a cleanup callback failure.
// Caught and logged by the manager, never propagated.
func CleanupFailed(handle string, cause error) *Error {
	return &Error{
		Phase:  PhaseRevoke,
		Kind:   KindCleanupCallback,
		Handle: handle,
		Detail: "cleanup callback failed",
		Cause:  cause,
	}
}

// Consumption creates a consumer-side fetch failure
func Consumption(handle, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConsume,
		Kind:   KindConsumption,
		Handle: handle,
		Detail: detail,
		Cause:  cause,
	}
}

// RetryExhausted creates a retry-budget error
func RetryExhausted(owner string, attempts int) *Error {
	return &Error{
		Phase:  PhaseConsume,
		Kind:   KindRetryExhausted,
		Owner:  owner,
		Detail: fmt.Sprintf("retry budget of %d attempts exhausted", attempts),
	}
}

// IsKind reports whether err is a blobkit error of the given kind
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
