package reservation

import (
	"time"

	"github.com/studioops/reservation-backend/internal/resource"
)

// OverlappingQuantity sums the quantity of active reservations on the given
// resource whose interval overlaps [start, end). excludeID skips one
// reservation, so an edit is not blocked by its own prior allocation.
func OverlappingQuantity(reservations []*Reservation, kind resource.Kind, resourceID string, start, end time.Time, excludeID string) int {
	sum := 0
	for _, r := range reservations {
		if r.Status != StatusActive {
			continue
		}
		if r.ResourceType != kind || r.ResourceID != resourceID {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if r.OverlapsWindow(start, end) {
			q := r.Quantity
			if q < 1 {
				q = 1
			}
			sum += q
		}
	}
	return sum
}

// AvailableQuantity computes how many units of res are free over [start, end)
// given a snapshot of its reservations. A resource that is inactive, or
// equipment whose resource-level status is not "available", reports zero
// regardless of the quantity arithmetic. Results must be recomputed after any
// booking or cancellation; nothing here is cached.
func AvailableQuantity(res *resource.Resource, start, end time.Time, reservations []*Reservation, excludeID string) int {
	if !res.Bookable() {
		return 0
	}
	booked := OverlappingQuantity(reservations, res.Kind, res.ID, start, end, excludeID)
	available := res.TotalQuantity() - booked
	if available < 0 {
		return 0
	}
	return available
}
