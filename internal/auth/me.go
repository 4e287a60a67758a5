package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/middleware"
)

// Me returns the authenticated user's own record.
func (h *Handler) Me(c echo.Context) error {
	s, ok := h.Sessions.Get(middleware.UserID(c))
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	u := s.CurrentUser()
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Logout ends the session. The token itself is not revoked; the session
// and its cached collections are dropped immediately.
func (h *Handler) Logout(c echo.Context) error {
	h.Sessions.Logout(middleware.UserID(c))
	return c.JSON(http.StatusOK, echo.Map{"message": "You have been logged out."})
}

// ToggleRole flips the active role for users granted both roles; a no-op
// otherwise.
func (h *Handler) ToggleRole(c echo.Context) error {
	s, ok := h.Sessions.Get(middleware.UserID(c))
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	u := s.ToggleActiveRole()
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
