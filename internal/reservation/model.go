package reservation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/studioops/reservation-backend/internal/pkg/apperror"
	"github.com/studioops/reservation-backend/internal/resource"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "reservation_not_found", "reservation not found")
	ErrResourceNotFound    = apperror.New(http.StatusNotFound, "resource_not_found", "resource not found")
	ErrResourceUnavailable = apperror.New(http.StatusConflict, "resource_unavailable", "resource does not accept reservations")
	ErrTitleRequired       = apperror.New(http.StatusBadRequest, "title_required", "title cannot be empty")
	ErrInvalidTimeRange    = apperror.New(http.StatusBadRequest, "invalid_time_range", "start time must be before end time")
	ErrInvalidQuantity     = apperror.New(http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
	ErrWeekdaysRequired    = apperror.New(http.StatusBadRequest, "weekdays_required", "weekly recurrence requires at least one weekday")
	ErrAlreadyCancelled    = apperror.New(http.StatusConflict, "already_cancelled", "reservation is already cancelled")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "permission_denied", "permission denied")
	ErrBURequired          = apperror.New(http.StatusForbidden, "business_unit_required", "only users assigned to a business unit can reserve")

	// ErrBookingConflict signals a commit-time race: the capacity invariant
	// could not be re-verified because a concurrent booking got there first.
	// Unlike a capacity error, retrying against fresh availability makes sense.
	ErrBookingConflict = apperror.New(http.StatusConflict, "booking_conflict", "availability changed, please retry")
)

// CapacityError reports that a requested quantity exceeds what is free in the
// candidate window. Available lets the caller retry with a reduced request.
type CapacityError struct {
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("requested %d unit(s) but only %d available", e.Requested, e.Available)
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Reservation is a time-bounded claim on some quantity of a resource.
// The interval is half-open: [StartTime, EndTime). Rows are never deleted;
// cancellation flips Status and preserves history.
type Reservation struct {
	ID           string
	ResourceType resource.Kind
	ResourceID   string
	ResourceName string
	ReserverID   string
	ReserverName string
	ProjectID    *string
	TaskID       *string
	Title        string
	StartTime    time.Time
	EndTime      time.Time
	Quantity     int
	Status       Status
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing reservations. StartDate/EndDate select
// by interval overlap, so a reservation that merely pokes into the window is
// included.
type Filter struct {
	ResourceType resource.Kind
	ResourceID   string
	ReserverID   string
	Status       string
	StartDate    *time.Time
	EndDate      *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
