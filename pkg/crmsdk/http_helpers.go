package crmsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values

	// body is JSON-encoded unless raw is set.
	body any

	// raw is sent as-is with contentType, used for multipart uploads.
	raw         io.Reader
	contentType string

	// auth attaches the bearer token and arms the 401 handler.
	auth bool
}

// url builds a complete URL by appending the path and query to the base URL.
func (c *Client) url(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs the request and returns the raw response. Transport failures
// come back as *NetworkError. A 401 on an authenticated request fires
// OnUnauthorized before the response is handed back.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	var body io.Reader
	contentType := r.contentType

	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	target := c.url(r.path, r.query)
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	var token string
	if r.auth && c.Tokens != nil {
		if t, ok := c.Tokens.Token(ctx); ok {
			token = t
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: r.method, URL: target, Err: unwrapURLError(err)}
	}

	if r.auth && resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
		c.OnUnauthorized(ctx, token)
	}

	return resp, nil
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// decodeJSON decodes a 2xx response into target and validates it. Non-2xx
// responses become *APIError.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if v, ok := target.(validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// checkStatus drains a response whose body is not needed and returns an
// *APIError for non-2xx statuses.
func checkStatus(resp *http.Response) error {
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	return parseErrorResponse(resp, bodyBytes)
}

// call runs an authenticated request and decodes the result into T.
func call[T any](ctx context.Context, c *Client, r request) (*T, error) {
	r.auth = true

	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}

	var out T
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// callNoContent runs an authenticated request whose response body is ignored.
func callNoContent(ctx context.Context, c *Client, r request) error {
	r.auth = true

	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

// Resource-shaped helpers shared by every CRUD endpoint family.

func list[T any](ctx context.Context, c *Client, path string, params ListParams) (*Page[T], error) {
	return call[Page[T]](ctx, c, request{method: http.MethodGet, path: path, query: params.Values()})
}

func get[T any](ctx context.Context, c *Client, path, id string) (*T, error) {
	return call[T](ctx, c, request{method: http.MethodGet, path: path + "/" + url.PathEscape(id)})
}

func create[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return call[T](ctx, c, request{method: http.MethodPost, path: path, body: body})
}

func update[T any](ctx context.Context, c *Client, path, id string, body any) (*T, error) {
	return call[T](ctx, c, request{method: http.MethodPut, path: path + "/" + url.PathEscape(id), body: body})
}

func remove(ctx context.Context, c *Client, path, id string) error {
	return callNoContent(ctx, c, request{method: http.MethodDelete, path: path + "/" + url.PathEscape(id)})
}
