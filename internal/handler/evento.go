package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/repository"
)

// EventoHandler bundles dependencies for the event endpoints.
type EventoHandler struct {
	Eventos *repository.EventoRepo
	Cache   *cache.Store
}

func NewEventoHandler(eventos *repository.EventoRepo, cs *cache.Store) *EventoHandler {
	return &EventoHandler{Eventos: eventos, Cache: cs}
}

type eventoReq struct {
	Titulo        string  `json:"titulo"`
	Descricao     string  `json:"descricao"`
	Dia           string  `json:"dia"`
	HorarioInicio string  `json:"horario_inicio"`
	HorarioFim    string  `json:"horario_fim"`
	Local         string  `json:"local"`
	ImagemURL     *string `json:"imagem_url"`
	CountryID     *uint64 `json:"countryId"` // nil: festival-wide event
	IsFeatured    bool    `json:"isFeatured"`
	Order         int     `json:"order"`
	IsActive      *bool   `json:"isActive"`
}

func (r *eventoReq) validate() (*repository.Evento, string) {
	titulo := strings.TrimSpace(r.Titulo)
	dia := strings.TrimSpace(r.Dia)
	switch {
	case titulo == "":
		return nil, "titulo is required"
	case dia == "":
		return nil, "dia is required"
	case strings.TrimSpace(r.HorarioInicio) == "":
		return nil, "horario_inicio is required"
	case strings.TrimSpace(r.HorarioFim) == "":
		return nil, "horario_fim is required"
	case strings.TrimSpace(r.Local) == "":
		return nil, "local is required"
	}
	if _, err := time.Parse("2006-01-02", dia); err != nil {
		return nil, "dia must be YYYY-MM-DD"
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &repository.Evento{
		Titulo:        titulo,
		Descricao:     strings.TrimSpace(r.Descricao),
		Dia:           dia,
		HorarioInicio: strings.TrimSpace(r.HorarioInicio),
		HorarioFim:    strings.TrimSpace(r.HorarioFim),
		Local:         strings.TrimSpace(r.Local),
		ImagemURL:     r.ImagemURL,
		CountryID:     r.CountryID,
		IsFeatured:    r.IsFeatured,
		Order:         r.Order,
		IsActive:      active,
	}, ""
}

// List handles GET /api/eventos?dia=YYYY-MM-DD.  Only active events are
// returned, with or without the day filter.
func (h *EventoHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Eventos.List(ctx, c.QueryParam("dia"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch eventos"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/eventos/:id.
func (h *EventoHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ev, err := h.Eventos.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "evento not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch evento"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Create handles POST /api/eventos.
func (h *EventoHandler) Create(c echo.Context) error {
	var req eventoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	evento, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	created, err := h.Eventos.Create(ctx, evento)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "countryId does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create evento"})
	}
	h.Cache.Invalidate(ctx, "eventos")
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/eventos/:id.
func (h *EventoHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req eventoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	evento, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	updated, err := h.Eventos.Update(ctx, id, evento)
	if err != nil {
		if err == repository.ErrEventoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "evento not found"})
		}
		if strings.Contains(err.Error(), "1452") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "countryId does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update evento"})
	}
	h.Cache.Invalidate(ctx, "eventos")
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/eventos/:id.
func (h *EventoHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Eventos.Delete(ctx, id); err != nil {
		if err == repository.ErrEventoNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "evento not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete evento"})
	}
	h.Cache.Invalidate(ctx, "eventos")
	return c.NoContent(http.StatusNoContent)
}
