package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func baseDishReq() dishReq {
	return dishReq{
		Name:        "Coxinha",
		Description: "Frango desfiado",
		Price:       "8.00",
		CountryID:   1,
		Category:    "salgados",
	}
}

func TestDishValidateOK(t *testing.T) {
	req := baseDishReq()
	req.Tags = []string{" crocante ", "frito", "crocante", ""}
	dish, msg := req.validate()
	if msg != "" {
		t.Fatalf("unexpected validation error: %q", msg)
	}
	if !dish.IsAvailable {
		t.Fatal("isAvailable should default to true when omitted")
	}
	if len(dish.Tags) != 2 || dish.Tags[0] != "crocante" || dish.Tags[1] != "frito" {
		t.Fatalf("tags not normalized: %v", dish.Tags)
	}
}

func TestDishValidateRequiredFieldOrder(t *testing.T) {
	cases := []struct {
		mutate func(*dishReq)
		want   string
	}{
		{func(r *dishReq) { r.Name = "  " }, "name is required"},
		{func(r *dishReq) { r.Description = "" }, "description is required"},
		{func(r *dishReq) { r.Price = "" }, "price is required"},
		{func(r *dishReq) { r.CountryID = 0 }, "countryId is required"},
		{func(r *dishReq) { r.Category = "" }, "category is required"},
	}
	for _, tc := range cases {
		req := baseDishReq()
		tc.mutate(&req)
		if _, msg := req.validate(); msg != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, msg)
		}
	}
}

func TestDishValidateRejectsBadPriceAndCategory(t *testing.T) {
	req := baseDishReq()
	req.Price = "-1.00"
	if _, msg := req.validate(); msg != "price must be a non-negative decimal" {
		t.Fatalf("price: got %q", msg)
	}

	req = baseDishReq()
	req.Price = "oito reais"
	if _, msg := req.validate(); msg == "" {
		t.Fatal("non-numeric price should fail")
	}

	req = baseDishReq()
	req.Category = "sobremesas"
	_, msg := req.validate()
	if !strings.HasPrefix(msg, "category must be one of:") {
		t.Fatalf("category: got %q", msg)
	}
}

func TestDishValidateExplicitUnavailable(t *testing.T) {
	req := baseDishReq()
	f := false
	req.IsAvailable = &f
	dish, msg := req.validate()
	if msg != "" {
		t.Fatalf("unexpected error: %q", msg)
	}
	if dish.IsAvailable {
		t.Fatal("explicit false must survive validation")
	}
}

func newGetCtx(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParseFilters(t *testing.T) {
	c := newGetCtx(t, "/api/dishes?search=coxinha&country=3&category=salgados&featured=true")
	f := parseFilters(c)
	if f.Search != "coxinha" || f.CountryID != 3 || f.Category != "salgados" || !f.Featured {
		t.Fatalf("unexpected filters: %+v", f)
	}
}

func TestParseFiltersDefaults(t *testing.T) {
	f := parseFilters(newGetCtx(t, "/api/dishes"))
	if f.Search != "" || f.CountryID != 0 || f.Category != "" || f.Featured {
		t.Fatalf("expected zero filters, got %+v", f)
	}

	// featured is only true for the literal string "true"
	f = parseFilters(newGetCtx(t, "/api/dishes?featured=1"))
	if f.Featured {
		t.Fatal("featured=1 must not enable the filter")
	}

	// an unparseable country id is ignored rather than rejected
	f = parseFilters(newGetCtx(t, "/api/dishes?country=abc"))
	if f.CountryID != 0 {
		t.Fatalf("bad country id should be ignored, got %d", f.CountryID)
	}
}
