package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken extracts the exp claim from a bearer token without
// verifying the signature. The token came from the backend over TLS; the
// client only needs the expiry to know when to prompt for a fresh login, so
// an unverified parse is enough.
func ExpiryFromToken(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
