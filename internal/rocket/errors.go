package rocket

import (
	"errors"
	"fmt"
)

// Kind identifies which family of upstream operation failed.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindChannelList    Kind = "channel_list"
	KindChannelCreate  Kind = "channel_create"
	KindChannelInfo    Kind = "channel_info"
	KindMessageSend    Kind = "message_send"
	KindMessageUpload  Kind = "message_upload"
	KindMessageList    Kind = "message_list"
	KindSearch         Kind = "search"
)

// Error is a failed upstream operation. Detail carries whatever the upstream
// response or transport layer reported, so the facade can surface it without
// re-reading the response.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind) + " failed"
	}
	return fmt.Sprintf("%s failed: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		cause:  cause,
	}
}

// IsKind reports whether err is (or wraps) an upstream Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Kind == kind
	}
	return false
}

// ErrKind returns the kind of err, or the empty string if err is not an
// upstream Error.
func ErrKind(err error) Kind {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ""
}
