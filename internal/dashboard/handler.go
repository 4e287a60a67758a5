// Package dashboard serves the static provider dashboard view.
package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/store"
)

type Handler struct {
	Store *store.Store
}

// Stats returns the dashboard block. Read-only; no mutation path exists.
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.Store.DashboardStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
