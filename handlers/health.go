package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthzHandler reports liveness; the backend is not probed
// GET /healthz
func HealthzHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
