package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/config"
)

func TestPayloadRoundtrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`[{"id":1}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header: %v", gotHdr)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body: %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{
		nil,
		[]byte("short"),
		{0, 0, 0, 200, 0, 0, 255, 255, 'x'}, // header length past the buffer
	} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Fatalf("decode accepted garbage %v", bs)
		}
	}
}

func TestDisabledStoreIsPassThrough(t *testing.T) {
	s := New(config.CacheConfig{Enabled: true}, nil) // nil client disables it

	e := echo.New()
	called := false
	h := s.Middleware("dishes")(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest("GET", "/api/dishes", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatal("next handler was not invoked")
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Fatal("disabled store must not set cache headers")
	}

	// Invalidate on a disabled store must be a no-op, not a panic.
	s.Invalidate(c.Request().Context(), "dishes")
}

func TestKeyVariesWithQuery(t *testing.T) {
	s := New(config.CacheConfig{Prefix: "fenui:cache"}, nil)
	e := echo.New()

	mk := func(target string) string {
		c := e.NewContext(httptest.NewRequest("GET", target, nil), httptest.NewRecorder())
		c.SetPath("/api/dishes")
		return s.key("dishes", c)
	}

	k1 := mk("/api/dishes?category=doces")
	k2 := mk("/api/dishes?category=salgados")
	if k1 == k2 {
		t.Fatal("different query strings must yield different keys")
	}
	if k1 != mk("/api/dishes?category=doces") {
		t.Fatal("same request must yield a stable key")
	}
}
