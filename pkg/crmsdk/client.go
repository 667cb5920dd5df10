package crmsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// TokenSource yields the bearer token for outgoing requests. The credential
// store implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// UnauthorizedFunc is called synchronously when an authenticated request
// comes back 401. token is the credential the request was sent with, empty if
// none was attached.
type UnauthorizedFunc func(ctx context.Context, token string)

// Client is the single HTTP client of the console. It attaches the bearer
// token to every authenticated request and reports 401 responses through
// OnUnauthorized before returning the error to the caller.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Tokens supplies the bearer token. A nil source or an absent token never
	// blocks a request; it is simply sent without Authorization.
	Tokens TokenSource

	// OnUnauthorized is the global 401 handler.
	OnUnauthorized UnauthorizedFunc
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}
