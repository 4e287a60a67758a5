// Package marketplace serves the service-post feed: discovery, publishing,
// comments and reviews, backed by the per-user session cache.
package marketplace

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/middleware"
	"github.com/getapp-hq/getapp/internal/session"
	"github.com/getapp-hq/getapp/internal/store"
)

// Handler serves the service-post routes.
type Handler struct {
	Sessions *session.Manager
	Store    *store.Store
}

func (h *Handler) sessionFor(c echo.Context) (*session.Session, bool) {
	s, ok := h.Sessions.Get(middleware.UserID(c))
	return s, ok
}

// Feed returns the cached feed snapshot plus the loading flag; callers are
// expected to poll or wait while loading is true right after login.
func (h *Handler) Feed(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"loading": s.Loading(),
		"posts":   s.ServicePosts(),
	})
}

// Categories returns the static discovery categories.
func (h *Handler) Categories(c echo.Context) error {
	cats, err := h.Store.ListCategories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch categories"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

// CreateService publishes a new post for the authenticated provider.
func (h *Handler) CreateService(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req store.ServicePostInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ServiceName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_name is required"})
	}

	p, err := s.AddService(c.Request().Context(), req)
	if err != nil {
		return mapSessionErr(c, err, "could not create service")
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": p, "toast": s.Toast()})
}

// UpdateService applies a partial update to a post owned by the provider.
func (h *Handler) UpdateService(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req store.ServicePostUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := s.UpdateService(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return mapSessionErr(c, err, "could not update service")
	}
	return c.JSON(http.StatusOK, echo.Map{"post": p, "toast": s.Toast()})
}

// QR exposes the post's identifying token as opaque text, suitable for
// encoding into a scannable code. Nothing in scope interprets scans.
func (h *Handler) QR(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	id := c.Param("id")
	for _, p := range s.ServicePosts() {
		if p.ID == id {
			return c.String(http.StatusOK, p.ID)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
}

func mapSessionErr(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, session.ErrNotAuthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
