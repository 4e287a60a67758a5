package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateComment appends a comment to a post on behalf of the current user.
func (h *Handler) CreateComment(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	p, err := s.AddComment(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return mapSessionErr(c, err, "could not add comment")
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": p})
}

// CreateReview appends a review to a post; the response carries the post
// with its recomputed average rating.
func (h *Handler) CreateReview(c echo.Context) error {
	s, ok := h.sessionFor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	p, err := s.AddReview(c.Request().Context(), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return mapSessionErr(c, err, "could not add review")
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": p, "toast": s.Toast()})
}
