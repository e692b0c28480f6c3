package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/menu"
	"github.com/fenui/festival-menu-api/internal/queue"
	"github.com/fenui/festival-menu-api/internal/repository"
	queue_publisher "github.com/fenui/festival-menu-api/internal/service"
)

// DishHandler bundles dependencies for the dish endpoints.
type DishHandler struct {
	Dishes *repository.DishRepo
	Cache  *cache.Store
}

func NewDishHandler(dishes *repository.DishRepo, cs *cache.Store) *DishHandler {
	return &DishHandler{Dishes: dishes, Cache: cs}
}

// ----- DTOs -----

type dishReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       *string  `json:"image"`
	CountryID   uint64   `json:"countryId"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Allergens   []string `json:"allergens"`
	Rating      *string  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	IsFeatured  bool     `json:"isFeatured"`
	IsAvailable *bool    `json:"isAvailable"` // nil means the schema default (true)
	Order       int      `json:"order"`
}

// validate checks the five required fields plus the category closed set and
// the price shape, and normalizes the free-text lists.  Runs entirely at the
// boundary: storage never sees an invalid record.
func (r *dishReq) validate() (*repository.Dish, string) {
	name := strings.TrimSpace(r.Name)
	desc := strings.TrimSpace(r.Description)
	price := strings.TrimSpace(r.Price)
	switch {
	case name == "":
		return nil, "name is required"
	case desc == "":
		return nil, "description is required"
	case price == "":
		return nil, "price is required"
	case r.CountryID == 0:
		return nil, "countryId is required"
	case r.Category == "":
		return nil, "category is required"
	}
	if !validPrice(price) {
		return nil, "price must be a non-negative decimal"
	}
	if !menu.ValidCategory(r.Category) {
		return nil, "category must be one of: " + strings.Join(menu.Categories(), ", ")
	}
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &repository.Dish{
		Name:        name,
		Description: desc,
		Price:       price,
		Image:       r.Image,
		CountryID:   r.CountryID,
		Category:    r.Category,
		Tags:        normalizeList(r.Tags),
		Allergens:   normalizeList(r.Allergens),
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		IsFeatured:  r.IsFeatured,
		IsAvailable: available,
		Order:       r.Order,
	}, ""
}

// parseFilters reads the optional query parameters for the list endpoint.
func parseFilters(c echo.Context) repository.DishFilters {
	f := repository.DishFilters{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Featured: c.QueryParam("featured") == "true",
	}
	// A country value that is not a numeric id leaves the filter
	// unconstrained; the storefront only ever sends ids it got from
	// /api/countries, so there is nothing useful to reject.
	if v := c.QueryParam("country"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.CountryID = id
		}
	}
	return f
}

// List handles GET /api/dishes with the optional search/country/category/
// featured filters (AND semantics).
func (h *DishHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Dishes.List(ctx, parseFilters(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch dishes"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/dishes/:id.
func (h *DishHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	dish, err := h.Dishes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDishNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch dish"})
	}
	return c.JSON(http.StatusOK, dish)
}

// Create handles POST /api/dishes.
func (h *DishHandler) Create(c echo.Context) error {
	var req dishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	dish, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	created, err := h.Dishes.Create(ctx, dish)
	if err != nil {
		if strings.Contains(err.Error(), "1452") { // FK violation: unknown country
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "countryId does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create dish"})
	}
	h.Cache.Invalidate(ctx, "dishes")
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/dishes/:id (full-record replacement, no PATCH).
func (h *DishHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req dishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	dish, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	updated, err := h.Dishes.Update(ctx, id, dish)
	if err != nil {
		if err == repository.ErrDishNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		}
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "countryId does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update dish"})
	}
	h.Cache.Invalidate(ctx, "dishes")
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/dishes/:id.  The repository removes the view
// log and the dish in one transaction.
func (h *DishHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Dishes.Delete(ctx, id); err != nil {
		if err == repository.ErrDishNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete dish"})
	}
	h.Cache.Invalidate(ctx, "dishes")
	return c.NoContent(http.StatusNoContent)
}

// RecordView handles POST /api/dishes/:id/view.  The row insert is the
// source of truth; the broker event that feeds the analytics log is
// fire-and-forget.
func (h *DishHandler) RecordView(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var ip *string
	if v := c.RealIP(); v != "" {
		ip = &v
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Dishes.RecordView(ctx, id, ip); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record view"})
	}

	// Enrich the event with the dish snapshot when available; a lookup
	// failure only degrades the log line.
	ev := queue.DishViewedEvent{DishID: id, ViewedAt: time.Now().UTC().Format(time.RFC3339)}
	if ip != nil {
		ev.IPAddress = *ip
	}
	if dish, err := h.Dishes.GetByID(ctx, id); err == nil {
		ev.DishName = dish.Name
		ev.CountryName = dish.Country.Name
		ev.Category = dish.Category
	}
	_ = queue_publisher.PublishDishViewed(ctx, ev)

	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// ----- bulk ingestion -----

type bulkFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type bulkResp struct {
	Sucessos int           `json:"sucessos"`
	Erros    int           `json:"erros"`
	Detalhes []bulkFailure `json:"detalhes"`
}

// Bulk handles POST /api/dishes/bulk.  The whole payload is pre-validated
// before any insert: a non-array body or any record missing one of the five
// required fields rejects the batch wholesale.  After that each record is
// inserted independently; an individual failure (e.g. a foreign-key
// violation for a nonexistent country) is tallied and does not abort the
// rest.  The response is 200 even when every insert failed — batch failure
// lives in the body, not the status code.
func (h *DishHandler) Bulk(c echo.Context) error {
	var reqs []dishReq
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expected a JSON array of dishes"})
	}

	// Pre-validation pass: all records must be complete before any insert.
	records := make([]*repository.Dish, len(reqs))
	for i := range reqs {
		dish, msg := reqs[i].validate()
		if msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "record " + strconv.Itoa(i+1) + ": " + msg,
			})
		}
		records[i] = dish
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	resp := bulkResp{Detalhes: []bulkFailure{}}
	for _, dish := range records {
		if _, err := h.Dishes.Create(ctx, dish); err != nil {
			resp.Erros++
			resp.Detalhes = append(resp.Detalhes, bulkFailure{Name: dish.Name, Error: err.Error()})
			continue
		}
		resp.Sucessos++
	}
	if resp.Sucessos > 0 {
		h.Cache.Invalidate(ctx, "dishes")
	}
	return c.JSON(http.StatusOK, resp)
}
