package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/repository"
)

// BannerHandler bundles dependencies for the banner endpoints.
type BannerHandler struct {
	Banners *repository.BannerRepo
	Cache   *cache.Store
}

func NewBannerHandler(banners *repository.BannerRepo, cs *cache.Store) *BannerHandler {
	return &BannerHandler{Banners: banners, Cache: cs}
}

type bannerReq struct {
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Link     *string `json:"link"`
	Order    int     `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func (r *bannerReq) validate() (*repository.Banner, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, "title is required"
	}
	if strings.TrimSpace(r.Image) == "" {
		return nil, "image is required"
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &repository.Banner{
		Title:    title,
		Image:    r.Image, // may be a data URI; stored verbatim
		Link:     r.Link,
		Order:    r.Order,
		IsActive: active,
	}, ""
}

// List handles GET /api/banners.
func (h *BannerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Banners.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch banners"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/banners.
func (h *BannerHandler) Create(c echo.Context) error {
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	banner, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Banners.Create(ctx, banner); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create banner"})
	}
	h.Cache.Invalidate(ctx, "banners")
	return c.JSON(http.StatusCreated, banner)
}

// Update handles PUT /api/banners/:id.
func (h *BannerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	banner, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Banners.Update(ctx, id, banner); err != nil {
		if err == repository.ErrBannerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update banner"})
	}
	h.Cache.Invalidate(ctx, "banners")
	return c.JSON(http.StatusOK, banner)
}

// Delete handles DELETE /api/banners/:id.
func (h *BannerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Banners.Delete(ctx, id); err != nil {
		if err == repository.ErrBannerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete banner"})
	}
	h.Cache.Invalidate(ctx, "banners")
	return c.NoContent(http.StatusNoContent)
}
