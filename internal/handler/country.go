package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/repository"
)

// CountryHandler bundles dependencies for the country endpoints.
type CountryHandler struct {
	Countries *repository.CountryRepo
	Cache     *cache.Store
}

func NewCountryHandler(countries *repository.CountryRepo, cs *cache.Store) *CountryHandler {
	return &CountryHandler{Countries: countries, Cache: cs}
}

// ----- DTOs -----

type countryReq struct {
	Name      string  `json:"name"`
	FlagEmoji string  `json:"flagEmoji"`
	FlagImage *string `json:"flagImage"`
	Order     int     `json:"order"`
	IsActive  *bool   `json:"isActive"` // nil means the schema default (true)
}

type reorderReq struct {
	CountryIDs []uint64 `json:"countryIds"`
}

// validate trims and checks the required fields, returning the repository
// model or a client-facing message.
func (r *countryReq) validate() (*repository.Country, string) {
	name := strings.TrimSpace(r.Name)
	flag := strings.TrimSpace(r.FlagEmoji)
	if name == "" {
		return nil, "name is required"
	}
	if flag == "" {
		return nil, "flagEmoji is required"
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &repository.Country{
		Name:      name,
		FlagEmoji: flag,
		FlagImage: r.FlagImage,
		Order:     r.Order,
		IsActive:  active,
	}, ""
}

// List handles GET /api/countries.
func (h *CountryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Countries.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch countries"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/countries.
func (h *CountryHandler) Create(c echo.Context) error {
	var req countryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	country, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Countries.Create(ctx, country); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create country"})
	}
	h.Cache.Invalidate(ctx, "countries")
	return c.JSON(http.StatusCreated, country)
}

// Update handles PUT /api/countries/:id (full-record replacement).
func (h *CountryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req countryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	country, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Countries.Update(ctx, id, country); err != nil {
		if err == repository.ErrCountryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "country not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update country"})
	}
	// Country data is embedded in dish and event responses too.
	h.Cache.Invalidate(ctx, "countries", "dishes", "eventos")
	return c.JSON(http.StatusOK, country)
}

// Delete handles DELETE /api/countries/:id.  A country still owning dishes
// answers 409 so the admin removes or moves the dishes first.
func (h *CountryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Countries.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrCountryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "country not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "country still has dishes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete country"})
	}
	h.Cache.Invalidate(ctx, "countries", "dishes", "eventos")
	return c.NoContent(http.StatusNoContent)
}

// Reorder handles PUT /api/countries/reorder.  Each listed country's display
// position becomes its 0-based index in the array; omitted countries keep
// theirs.
func (h *CountryHandler) Reorder(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil || len(req.CountryIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "countryIds is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Countries.Reorder(ctx, req.CountryIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reorder countries"})
	}
	h.Cache.Invalidate(ctx, "countries", "dishes")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
