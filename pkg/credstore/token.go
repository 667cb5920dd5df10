package credstore

import "regexp"

// tokenShape is three non-empty base64url segments separated by dots.
var tokenShape = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

// ValidTokenShape reports whether token is structurally a JWT. It does not
// verify the signature or look at the claims.
func ValidTokenShape(token string) bool {
	return tokenShape.MatchString(token)
}
