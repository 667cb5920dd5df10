package session

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
	MsgLoginFailed        = "Login failed. Please try again."
)

// ErrIncompleteSession is returned when a login response or an installed
// session lacks a token or a user id.
var ErrIncompleteSession = errors.New("session: token and user id are required")

// LoginError is a failed login attempt with the message to show the user.
type LoginError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// newLoginError classifies err by status. Nothing here retries.
func newLoginError(err error) *LoginError {
	status := crmsdk.StatusCode(err)

	var msg string
	switch status {
	case http.StatusUnauthorized:
		msg = MsgInvalidCredentials
	case http.StatusNotFound:
		msg = MsgUserNotFound
	default:
		msg = crmsdk.UserMessage(err, MsgLoginFailed)
	}

	return &LoginError{StatusCode: status, Message: msg, Err: err}
}
