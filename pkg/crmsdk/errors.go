package crmsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkMessage is shown when a request never produced a response.
const NetworkMessage = "No response from server. Please check your connection."

// APIError is a response that arrived with a non-2xx status.
type APIError struct {
	// StatusCode is the HTTP status of the response
	StatusCode int

	// Detail is the structured "error" field of the body, if any
	Detail string

	// Message is the generic "message" field of the body, if any
	Message string

	// Body is the raw response body, kept for logging
	Body []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("crmsdk: HTTP %d: %s", e.StatusCode, e.Detail)
	case e.Message != "":
		return fmt.Sprintf("crmsdk: HTTP %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("crmsdk: HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// ServerMessage returns the most specific message the server sent, the
// structured error field first, then the generic message field.
func (e *APIError) ServerMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// NetworkError is a request that produced no response at all: DNS failure,
// refused connection, timeout.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("crmsdk: %s %s: no response: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// UserMessage turns err into a notification text: the server's own message
// when present, the network hint when no response arrived, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.ServerMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// parseErrorResponse builds an *APIError from a non-2xx response body. The
// "error" field may be a plain string or an object with its own message.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(payload.Message)

	if len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil {
			apiErr.Detail = strings.TrimSpace(s)
		} else {
			var obj struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &obj); err == nil {
				apiErr.Detail = strings.TrimSpace(obj.Message)
			}
		}
	}

	return apiErr
}
