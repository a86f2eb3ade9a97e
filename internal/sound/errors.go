package sound

import (
	"errors"
	"fmt"
)

// Domain names the error domain in rendered messages.
const Domain = "System Sound Services Error"

// ErrClosed is returned when a Sound is used after Close.
var ErrClosed = errors.New("sound: closed")

// Sentinel errors for use with errors.Is. They match any *Error of the same Kind.
var (
	ErrUnspecified         = &Error{Status: StatusUnspecified}
	ErrBadPropertySize     = &Error{Status: StatusBadPropertySize}
	ErrBadSpecifierSize    = &Error{Status: StatusBadSpecifierSize}
	ErrUnsupportedProperty = &Error{Status: StatusUnsupportedProperty}
	ErrClientTimedOut      = &Error{Status: StatusClientTimedOut}
)

// Error is a coded error carrying the platform result code and a message
// describing what the caller was doing when it occurred.
type Error struct {
	Status  Status
	Message string
}

// NewError builds an *Error for status with a context message.
func NewError(status Status, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return KindOf(e.Status)
}

// Error implements the error interface.
func (e *Error) Error() string {
	code := fmt.Sprintf("code %d", int32(e.Status))
	if cc, ok := FourCC(uint32(e.Status)); ok {
		code += fmt.Sprintf(" '%s'", cc)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %s (%s)", Domain, e.Kind(), code)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", Domain, e.Kind(), e.Message, code)
}

// Is matches errors of the same Kind. Undefined errors only match when the
// raw status is equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind() == KindUndefined || t.Kind() == KindUndefined {
		return e.Status == t.Status
	}
	return e.Kind() == t.Kind()
}

// check translates a Service status into an error.
func check(status Status, message string) error {
	if status == StatusOK {
		return nil
	}
	return NewError(status, message)
}
