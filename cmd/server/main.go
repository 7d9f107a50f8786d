package main

import (
	"log"

	"printera_landing_go/config"
	"printera_landing_go/handlers"
	"printera_landing_go/middleware"
	"printera_landing_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// External collaborators
	verifier := services.NewRecaptchaVerifier(cfg)
	mailer := services.NewMailer(cfg)

	var ledger services.Ledger
	if cfg.LedgerTestMode {
		log.Printf("[INFO] Ledger test mode: appending leads to %s", cfg.LedgerFile)
		ledger = services.NewExcelLedger(cfg.LedgerFile)
	} else {
		ledger = services.NewGoogleSheetsLedger(cfg)
	}

	contact := handlers.NewContactHandler(cfg, verifier, mailer, ledger)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Static files
	e.Static("/static", cfg.StaticDir)

	// Routes
	e.GET("/", handlers.LandingHandler(cfg))
	e.GET("/health", handlers.HealthHandler)
	e.POST("/api/contact", contact.Submit, middleware.ContactRateLimiter.Middleware())

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
