package handler // handler defines http handlers

import (
	"context" // context builds per-request timeouts for DB calls
	"errors"  // errors provides sentinel values used in parseID
	"strconv" // strconv converts path parameters to numeric types
	"strings" // strings provides trimming helpers
	"time"    // time bounds database calls

	"github.com/labstack/echo/v4" // echo defines request context types
)

// dbTimeout bounds every handler-initiated database call.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.  Callers must defer the
// returned cancel.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID extracts the numeric :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// normalizeList trims surrounding whitespace, drops empties and removes
// duplicates while preserving first-seen order.  Used for dish tags and
// allergens, which have no fixed vocabulary beyond this cleanup.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// validPrice reports whether s is a plain non-negative fixed-point decimal:
// digits, optionally a dot and one or two fraction digits, matching the
// DECIMAL(10,2) price column.  Signs and exponents are rejected.  Prices
// travel as strings end to end; this is the only place their shape is checked.
func validPrice(s string) bool {
	intPart, frac, hasDot := strings.Cut(s, ".")
	if intPart == "" || len(intPart) > 8 {
		return false
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return false
		}
	}
	if hasDot {
		if frac == "" || len(frac) > 2 {
			return false
		}
		for _, r := range frac {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
