package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fenui/festival-menu-api/internal/cache"
	"github.com/fenui/festival-menu-api/internal/config"
	"github.com/fenui/festival-menu-api/internal/database"
	"github.com/fenui/festival-menu-api/internal/handler"
	"github.com/fenui/festival-menu-api/internal/middleware"
	"github.com/fenui/festival-menu-api/internal/queue"
	"github.com/fenui/festival-menu-api/internal/repository"
	"github.com/fenui/festival-menu-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cs := cache.New(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	countryRepo := repository.NewCountryRepo(db)
	dishRepo := repository.NewDishRepo(db)
	bannerRepo := repository.NewBannerRepo(db)
	eventoRepo := repository.NewEventoRepo(db)
	userRepo := repository.NewUserRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// Seed the back-office account when configured.
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := userRepo.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			log.Printf("admin seed: %v", err)
		}
		cancel()
	}

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Countries: handler.NewCountryHandler(countryRepo, cs),
		Dishes:    handler.NewDishHandler(dishRepo, cs),
		Banners:   handler.NewBannerHandler(bannerRepo, cs),
		Eventos:   handler.NewEventoHandler(eventoRepo, cs),
		Admin:     handler.NewAdminHandler(cfg, userRepo, statsRepo),
	}, cs, limiter, cfg.JWTSecret)

	// The view-event consumer runs for the lifetime of the server and
	// reconnects on its own; it never returns under normal operation.
	go func() {
		if err := queue.StartViewConsumer(); err != nil {
			log.Printf("view consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
