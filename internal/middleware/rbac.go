package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/session"
	"github.com/getapp-hq/getapp/internal/store"
)

// RequireActiveRole ensures the requester has a live session whose active
// role matches. The check is against the session, not a token claim, since
// the active role can be toggled at any time.
// Usage: route(..., RequireActiveRole(sessions, store.RoleProvider))
func RequireActiveRole(sessions *session.Manager, role store.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			s, ok := sessions.Get(uid)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
			}
			u := s.CurrentUser()
			if u == nil || u.ActiveRole != role {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}
