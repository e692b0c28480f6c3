package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/handler"
	"github.com/fenui/festival-menu-api/internal/middleware"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Countries *handler.CountryHandler
	Dishes    *handler.DishHandler
	Banners   *handler.BannerHandler
	Eventos   *handler.EventoHandler
	Admin     *handler.AdminHandler
}

// RegisterRoutes registers the whole API surface on the provided Echo
// instance.  Public reads sit behind the per-group response cache and the
// rate limiter; every mutating route lives in the admin group gated by the
// session-token middleware.  /healthz stays outside both so probes are never
// throttled or cached.
func RegisterRoutes(e *echo.Echo, h Handlers, cs *cache.Store, limiter echo.MiddlewareFunc, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", limiter)

	// Public storefront reads, cached per entity group so the admin side can
	// invalidate exactly what a mutation touched.
	api.GET("/countries", h.Countries.List, cs.Middleware("countries"))
	api.GET("/dishes", h.Dishes.List, cs.Middleware("dishes"))
	api.GET("/dishes/:id", h.Dishes.Get, cs.Middleware("dishes"))
	api.GET("/banners", h.Banners.List, cs.Middleware("banners"))
	api.GET("/eventos", h.Eventos.List, cs.Middleware("eventos"))
	api.GET("/eventos/:id", h.Eventos.Get, cs.Middleware("eventos"))

	// View tracking is public and append-only; it never goes through the
	// cache because it is a write.
	api.POST("/dishes/:id/view", h.Dishes.RecordView)

	// Login is the one unauthenticated admin endpoint; it issues the token
	// the rest of the back-office requires.
	api.POST("/admin/login", h.Admin.Login)

	// Back-office: everything below requires a valid session token.
	admin := api.Group("", middleware.AdminAuth(jwtSecret))
	admin.GET("/admin/stats", h.Admin.DashboardStats)

	// The static /reorder segment must not be swallowed by /:id, so it is
	// registered alongside the parameterized routes (Echo matches static
	// segments first).
	admin.PUT("/countries/reorder", h.Countries.Reorder)
	admin.POST("/countries", h.Countries.Create)
	admin.PUT("/countries/:id", h.Countries.Update)
	admin.DELETE("/countries/:id", h.Countries.Delete)

	admin.POST("/dishes", h.Dishes.Create)
	admin.POST("/dishes/bulk", h.Dishes.Bulk)
	admin.PUT("/dishes/:id", h.Dishes.Update)
	admin.DELETE("/dishes/:id", h.Dishes.Delete)

	admin.POST("/banners", h.Banners.Create)
	admin.PUT("/banners/:id", h.Banners.Update)
	admin.DELETE("/banners/:id", h.Banners.Delete)

	admin.POST("/eventos", h.Eventos.Create)
	admin.PUT("/eventos/:id", h.Eventos.Update)
	admin.DELETE("/eventos/:id", h.Eventos.Delete)
}
