package handlers

import (
	"net/http"
	"path/filepath"

	"printera_landing_go/config"

	"github.com/labstack/echo/v4"
)

// LandingHandler serves the landing page
func LandingHandler(cfg *config.Config) echo.HandlerFunc {
	index := filepath.Join(cfg.StaticDir, "index.html")
	return func(c echo.Context) error {
		return c.File(index)
	}
}

// HealthHandler is the liveness probe
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
