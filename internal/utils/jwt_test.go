package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAdminTokenRoundtrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAdminToken(secret, 7, "admin", 30)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if until := time.Until(tok.Exp); until < 29*time.Minute || until > 31*time.Minute {
		t.Fatalf("expiry not ~30m out: %v", tok.Exp)
	}

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["username"] != "admin" {
		t.Fatalf("username claim: %v", claims["username"])
	}
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 7 {
		t.Fatalf("sub claim: %v", claims["sub"])
	}
}

func TestNewAdminTokenWrongSecretRejected(t *testing.T) {
	tok, err := NewAdminToken("right", 1, "admin", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}
