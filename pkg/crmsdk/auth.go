package crmsdk

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a session payload. It is an unauthenticated
// call: a 401 here means bad credentials, not an expired session, so the
// global 401 handler is not involved.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/users/login",
		body:   LoginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
