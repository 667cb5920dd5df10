package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed reports a token that does not decode as a JWT.
var ErrMalformed = errors.New("jwtx: malformed token")

// Info is the unverified view of a bearer token's registered claims. The
// signature is never checked here: the API server is the only party that can
// verify it. Info exists for display and for warning about a token that is
// already past its expiry before a request is wasted on it.
type Info struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect decodes the claims of a JWT-shaped token without verifying it.
func Inspect(token string) (Info, error) {
	var claims jwt.RegisteredClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Info{}, errors.Join(ErrMalformed, err)
	}

	info := Info{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether the token carries an exp claim that is before now.
// Tokens without exp never expire from the client's point of view.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Remaining is the time left until exp, zero when unknown or past.
func (i Info) Remaining(now time.Time) time.Duration {
	if i.ExpiresAt.IsZero() || now.After(i.ExpiresAt) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}
