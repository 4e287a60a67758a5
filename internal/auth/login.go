package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/getapp-hq/getapp/internal/store"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ===== Login =====
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	s, err := h.Sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			// Generic message: never confirm which half of the
			// credential pair was wrong.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	user := s.CurrentUser()
	token, err := h.issueToken(user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user, Toast: s.Toast()})
}
