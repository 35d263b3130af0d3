package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok := ExpiryFromToken(signed)
	if !ok {
		t.Fatal("expected expiry to be extracted")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
}

func TestExpiryFromTokenMalformed(t *testing.T) {
	if _, ok := ExpiryFromToken("not-a-jwt"); ok {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestAuthValid(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		auth Auth
		want bool
	}{
		{"empty", Auth{}, false},
		{"live", Auth{Token: "t", Expiration: now.Add(time.Minute)}, true},
		{"expired", Auth{Token: "t", Expiration: now.Add(-time.Minute)}, false},
		{"no expiry", Auth{Token: "t"}, true},
	}
	for _, tc := range cases {
		if got := tc.auth.Valid(now); got != tc.want {
			t.Errorf("%s: Valid = %v, want %v", tc.name, got, tc.want)
		}
	}
}
