package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenExpiry_ReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "admin", "exp": exp.Unix()})

	got, ok := TokenExpiry(token)
	if !ok {
		t.Fatal("expected expiry to be found")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Fatal("expected no expiry for opaque token")
	}
	if _, ok := TokenExpiry(""); ok {
		t.Fatal("expected no expiry for empty token")
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "admin"})
	if _, ok := TokenExpiry(token); ok {
		t.Fatal("expected no expiry when claim is absent")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	expired := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
	valid := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})

	if !TokenExpired(expired, now) {
		t.Fatal("expected expired token to be reported")
	}
	if TokenExpired(valid, now) {
		t.Fatal("expected valid token to pass")
	}
	if TokenExpired("opaque", now) {
		t.Fatal("opaque tokens must never be reported as expired")
	}
}
