package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/config"
	"github.com/fenui/festival-menu-api/internal/repository"
	"github.com/fenui/festival-menu-api/internal/utils"
)

// AdminHandler bundles dependencies for the back-office auth and dashboard
// endpoints.
type AdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Stats *repository.StatsRepo
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, stats *repository.StatsRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Stats: stats}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    userPart  `json:"user"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Login handles POST /api/admin/login.  On a bcrypt match it issues the
// signed session token that gates every mutating admin route; invalid
// credentials always answer 401 without distinguishing unknown user from
// wrong password.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAdminToken(h.Cfg.JWTSecret, u.ID, u.Username, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Success: true,
		Token:   token.Token,
		Expires: token.Exp,
		User:    userPart{ID: u.ID, Username: u.Username},
	})
}

// DashboardStats handles GET /api/admin/stats.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	stats, err := h.Stats.Dashboard(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
