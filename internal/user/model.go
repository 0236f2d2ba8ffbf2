package user

import (
	"net/http"
	"time"

	"github.com/studioops/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user_not_found", "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email_taken", "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "user_inactive", "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email_required", "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password_too_short", "password is too short")
)

// User represents a reserver in the system. BUCode is the business unit the
// user belongs to; only users with a business unit may create reservations.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	BUCode       *string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Filter defines filter options for listing users.
type Filter struct {
	BUCode   string
	IsActive *bool // Pointer to distinguish between false and nil (not set)

	Page     int
	PageSize int
}
