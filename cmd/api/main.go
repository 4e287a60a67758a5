package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/getapp-hq/getapp/internal/auth"
	"github.com/getapp-hq/getapp/internal/chat"
	"github.com/getapp-hq/getapp/internal/config"
	"github.com/getapp-hq/getapp/internal/dashboard"
	"github.com/getapp-hq/getapp/internal/jobs"
	"github.com/getapp-hq/getapp/internal/marketplace"
	appmw "github.com/getapp-hq/getapp/internal/middleware"
	"github.com/getapp-hq/getapp/internal/session"
	"github.com/getapp-hq/getapp/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st := store.New(store.Config{LatencyScale: cfg.LatencyScale})
	sessions := session.NewManager(st, nil)

	authH := &auth.Handler{Sessions: sessions, JWTSecret: []byte(cfg.JWTSecret)}
	marketH := &marketplace.Handler{Sessions: sessions, Store: st}
	jobsH := &jobs.Handler{Sessions: sessions, Store: st}
	chatH := &chat.Handler{Store: st}
	dashH := &dashboard.Handler{Store: st}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok", "service": "getapp"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authH.Signup)
	authGroup.POST("/login", authH.Login)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWT([]byte(cfg.JWTSecret)))

	g.GET("/auth/me", authH.Me)
	g.POST("/auth/logout", authH.Logout)
	g.POST("/profile/role/toggle", authH.ToggleRole)

	// Feed and discovery
	g.GET("/feed", marketH.Feed)
	g.GET("/categories", marketH.Categories)

	// Service posts
	g.POST("/services", marketH.CreateService, appmw.RequireActiveRole(sessions, store.RoleProvider))
	g.PATCH("/services/:id", marketH.UpdateService, appmw.RequireActiveRole(sessions, store.RoleProvider))
	g.POST("/services/:id/comments", marketH.CreateComment)
	g.POST("/services/:id/reviews", marketH.CreateReview)
	g.GET("/services/:id/qr", marketH.QR)

	// Jobs
	g.GET("/jobs", jobsH.List)
	g.POST("/jobs", jobsH.Create, appmw.RequireActiveRole(sessions, store.RoleProvider))
	g.PATCH("/jobs/:id", jobsH.Update)
	g.POST("/jobs/:id/delivery", jobsH.RequestDelivery)
	g.GET("/jobs/:id/qr", jobsH.QR)

	// Stubs
	g.GET("/chats", chatH.List)
	g.GET("/dashboard/stats", dashH.Stats)

	log.Printf("API server listening on :%s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
