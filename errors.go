package plurk

import "errors"

// ErrNotLoggedIn is returned by authenticated operations invoked before a
// successful Login. The request is rejected before any network call.
var ErrNotLoggedIn = errors.New("not logged in: call Login first")

// ErrInvalidArgument is returned when a caller-supplied value is outside the
// set the server accepts. The request is rejected before any network call.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError is a request the server rejected. Text is the server's error_text
// verbatim.
type APIError struct {
	Status int
	Text   string
}

func (e *APIError) Error() string { return e.Text }

// AuthError is a login the server rejected. Text is the server's error_text
// verbatim.
type AuthError struct {
	Text string
}

func (e *AuthError) Error() string { return e.Text }
