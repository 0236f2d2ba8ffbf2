package resource

import (
	"net/http"
	"time"

	"github.com/studioops/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "resource_not_found", "resource not found")
	ErrInvalidKind        = apperror.New(http.StatusBadRequest, "invalid_kind", "invalid resource kind")
	ErrEmptyName          = apperror.New(http.StatusBadRequest, "name_required", "name cannot be empty")
	ErrPlateRequired      = apperror.New(http.StatusBadRequest, "license_plate_required", "license plate is required for vehicles")
	ErrInvalidQuantity    = apperror.New(http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "invalid_status", "invalid equipment status")
	ErrActiveReservations = apperror.New(http.StatusConflict, "resource_in_use", "resource has active reservations")
	ErrNoPhoto            = apperror.New(http.StatusNotFound, "photo_not_found", "resource has no photo")
)

// Kind distinguishes the three bookable resource families.
type Kind string

const (
	KindMeetingRoom Kind = "meeting_room"
	KindVehicle     Kind = "vehicle"
	KindEquipment   Kind = "equipment"
)

// ValidKind reports whether k is one of the supported resource kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindMeetingRoom, KindVehicle, KindEquipment:
		return true
	}
	return false
}

// EquipmentStatus is the resource-level status of an equipment group.
// It is distinct from time-sliced availability: maintenance and lost exclude
// the resource from booking regardless of how many units are free.
type EquipmentStatus string

const (
	StatusAvailable   EquipmentStatus = "available"
	StatusRented      EquipmentStatus = "rented"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusLost        EquipmentStatus = "lost"
)

// ValidEquipmentStatus reports whether s is a known equipment status.
func ValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance, StatusLost:
		return true
	}
	return false
}

// Resource is a bookable master record. One table holds all three kinds;
// kind-specific columns are nullable and only populated for their kind.
type Resource struct {
	ID          string
	Kind        Kind
	Name        string
	Description *string
	Location    *string
	IsActive    bool

	// Meeting room: seat count, informational only (never enforced).
	Capacity *int

	// Vehicle
	LicensePlate *string

	// Equipment
	BUCode       *string
	Category     *string
	Quantity     int // owned units; fixed at 1 for rooms and vehicles
	SerialNumber *string
	Status       EquipmentStatus
	Notes        *string

	PhotoPath *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalQuantity returns the capacity the availability sum is checked against.
// Rooms and vehicles book exclusively.
func (r *Resource) TotalQuantity() int {
	if r.Kind == KindEquipment {
		return r.Quantity
	}
	return 1
}

// Bookable reports whether the resource accepts new reservations at all.
// Equipment additionally requires resource-level status "available".
func (r *Resource) Bookable() bool {
	if !r.IsActive {
		return false
	}
	if r.Kind == KindEquipment {
		return r.Status == StatusAvailable
	}
	return true
}

// Filter defines parameters for listing resources.
type Filter struct {
	Kind     Kind
	IsActive *bool
	BUCode   string
	Category string

	Page     int
	PageSize int
}
