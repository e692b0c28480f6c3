package handler

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNormalizeList(t *testing.T) {
	in := []string{"  apimentado ", "frito", "", "apimentado", "   "}
	got := normalizeList(in)
	want := []string{"apimentado", "frito"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeListEmpty(t *testing.T) {
	if got := normalizeList(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestValidPrice(t *testing.T) {
	for _, s := range []string{"0", "8.5", "8.50", "0.00", "199.99", "12345678.99"} {
		if !validPrice(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	// Column shape only: no signs, no exponents, at most two fraction digits.
	for _, s := range []string{"", "-1", "+1", "abc", "8,50", "1e2", "8.505", ".50", "8.", "123456789"} {
		if validPrice(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestParseID(t *testing.T) {
	e := echo.New()
	ctx := func(v string) echo.Context {
		c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(v)
		return c
	}

	if id, err := parseID(ctx("42")); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d / %v", id, err)
	}
	for _, v := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(ctx(v)); err == nil {
			t.Fatalf("%q should be rejected", v)
		}
	}
}
