package errs

import "fmt"

// Kind classifies a service-layer failure so the transport can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindInvalidArgument
	KindInvalidCredentials
	KindAccountDisabled
	KindTooManyAttempts
	KindConflict
)

// Error is a classified service error. Messages are safe to return to the
// caller verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindInternal for any error that
// was not produced by this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Shared sentinels for the auth path. The invalid-credentials message is the
// same error value for unknown-username and wrong-password so the two cases
// are indistinguishable to the caller.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Incorrect username or password"}
	ErrAccountDisabled    = &Error{Kind: KindAccountDisabled, Message: "Your account has been locked"}
	ErrTooManyAttempts    = &Error{Kind: KindTooManyAttempts, Message: "Too many failed login attempts, try again later"}
)
