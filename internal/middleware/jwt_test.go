package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/utils"
)

func runAuth(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := AdminAuth(secret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, c, called
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAdminToken("secret", 7, "admin", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec, c, called := runAuth(t, "secret", "Bearer "+tok.Token)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got status %d (called=%v)", rec.Code, called)
	}
	if c.Get("username") != "admin" {
		t.Fatalf("username not injected: %v", c.Get("username"))
	}
}

func TestAdminAuthRejectsMissingHeader(t *testing.T) {
	rec, _, called := runAuth(t, "secret", "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAdminToken("other", 7, "admin", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec, _, called := runAuth(t, "secret", "Bearer "+tok.Token)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAdminAuthRejectsMalformedToken(t *testing.T) {
	rec, _, called := runAuth(t, "secret", "Bearer not.a.jwt")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}
