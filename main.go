package main

import (
	"log"

	"larder/internal/auth"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/email"
	"larder/internal/handlers"
	"larder/internal/inventory"
	"larder/internal/logger"
	"larder/internal/middleware"
	"larder/internal/recipes"
	"larder/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := database.CleanupExpiredSessions(db); err != nil {
		logger.Warn("Failed to cleanup expired sessions", "error", err)
	}
	if err := database.CleanupExpiredCSRFTokens(db); err != nil {
		logger.Warn("Failed to cleanup expired CSRF tokens", "error", err)
	}

	emailService := email.NewService(cfg)
	if emailService.IsEnabled() {
		logger.Info("Email service enabled with Mailgun")
	} else {
		logger.Info("Email service disabled - Mailgun not configured")
	}

	if cfg.SpoonacularAPIKey == "" {
		logger.Warn("SPOONACULAR_API_KEY not set - recipe search will return no recipes")
	}

	svc := &handlers.Services{
		Auth:      auth.NewService(db),
		Inventory: inventory.NewService(db),
		Recipes:   recipes.NewClient(cfg),
		Sessions:  session.NewManager(cfg.SessionDuration),
		Email:     emailService,
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg))

	handlers.SetupRoutes(r, db, cfg, svc)

	logger.Info("Server starting", "port", cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
