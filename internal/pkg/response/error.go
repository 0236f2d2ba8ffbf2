package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioops/reservation-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
// Reason is a stable slug clients can branch on (e.g. retry on
// "booking_conflict", reduce quantity on "capacity_exceeded").
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code and
// reason slug. Anything else becomes a 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Reason: appErr.Reason})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
