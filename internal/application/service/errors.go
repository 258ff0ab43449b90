package service

import "errors"

// Kind classifies a service failure so the transport layer can map it to a
// status code without inspecting message strings.
type Kind int

const (
	// KindInternal covers unexpected collaborator failures.
	KindInternal Kind = iota
	// KindValidation covers missing or mismatched input.
	KindValidation
	// KindConflict covers uniqueness violations such as a duplicate email.
	KindConflict
	// KindAuthentication covers bad credentials, codes and tokens.
	KindAuthentication
	// KindNotFound covers identifiers and tokens that resolve to nothing.
	KindNotFound
	// KindIntegrity covers corrupted stored state, e.g. a credential record
	// with no password hash.
	KindIntegrity
)

// Error is the only error type the services return. Message is safe to show
// to a client; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func authenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func integrityError(message string) *Error {
	return &Error{Kind: KindIntegrity, Message: message}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the failure class from an error returned by a service.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the client-safe message from a service error.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Internal server error"
}
