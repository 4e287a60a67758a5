// Package jobs serves the transactions list and its mutation flows:
// creation by a provider, status updates, and client delivery requests.
package jobs

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/middleware"
	"github.com/getapp-hq/getapp/internal/session"
	"github.com/getapp-hq/getapp/internal/store"
)

// Handler serves the job routes.
type Handler struct {
	Sessions *session.Manager
	Store    *store.Store
}

func (h *Handler) sessionFor(c echo.Context) (*session.Session, bool) {
	s, ok := h.Sessions.Get(middleware.UserID(c))
	return s, ok
}

// List returns the cached jobs snapshot plus the loading flag.
func (h *Handler) List(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"loading":      s.Loading(),
		"transactions": s.Transactions(),
	})
}

type CreateJobRequest struct {
	ServiceName         string `json:"service_name"`
	ClientID            string `json:"client_id"`
	Date                string `json:"date"`
	Status              string `json:"status"`
	PickupDeadlineHours int    `json:"pickup_deadline_hours"`
}

// Create opens a job between the authenticated provider and a client.
func (h *Handler) Create(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ServiceName == "" || req.ClientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_name and client_id are required"})
	}
	status := store.Status(req.Status)
	if req.Status == "" {
		status = store.StatusInProgress
	} else if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	client, err := h.Store.GetUser(c.Request().Context(), req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch client"})
	}

	t, err := s.AddJob(c.Request().Context(), store.TransactionInput{
		ServiceName:         req.ServiceName,
		Client:              *client,
		Date:                req.Date,
		Status:              status,
		PickupDeadlineHours: req.PickupDeadlineHours,
	})
	if err != nil {
		return mapSessionErr(c, err, "could not create job")
	}
	return c.JSON(http.StatusCreated, echo.Map{"transaction": t, "toast": s.Toast()})
}

// Update applies a partial update. Backward status moves are allowed; the
// store keeps no ordering enforcement.
func (h *Handler) Update(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req store.TransactionUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Status != nil && !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	t, err := s.UpdateJob(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return mapSessionErr(c, err, "could not update job")
	}
	return c.JSON(http.StatusOK, echo.Map{"transaction": t, "toast": s.Toast()})
}

type DeliveryRequest struct {
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// RequestDelivery schedules a delivery for a job that is ready for pickup.
// The store is deliberately permissive about status; the UI contract is
// the only gate.
func (h *Handler) RequestDelivery(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req DeliveryRequest
	if err := c.Bind(&req); err != nil || req.Address == "" || req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address and phone_number are required"})
	}

	t, err := s.RequestDelivery(c.Request().Context(), c.Param("id"), req.Address, req.PhoneNumber)
	if err != nil {
		return mapSessionErr(c, err, "could not request delivery")
	}
	return c.JSON(http.StatusOK, echo.Map{"transaction": t})
}

// QR exposes the job's opaque QR token as plain text.
func (h *Handler) QR(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	id := c.Param("id")
	for _, t := range s.Transactions() {
		if t.ID == id {
			return c.String(http.StatusOK, t.QRCodeID)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
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
