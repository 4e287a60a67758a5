// Package chat serves the read-only chat thread list. Messaging itself is
// out of scope; threads carry only their last-message summary.
package chat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/store"
)

type Handler struct {
	Store *store.Store
}

// List returns the chat threads for the chat list view.
func (h *Handler) List(c echo.Context) error {
	threads, err := h.Store.ListChatThreads(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch chats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"chats": threads})
}
