package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studioops/reservation-backend/internal/resource"
)

func equipmentResource(id string, quantity int, status resource.EquipmentStatus) *resource.Resource {
	return &resource.Resource{
		ID:       id,
		Kind:     resource.KindEquipment,
		Name:     "Camera A",
		IsActive: true,
		Quantity: quantity,
		Status:   status,
	}
}

func activeBooking(id, resourceID string, qty int, start, end time.Time) *Reservation {
	return &Reservation{
		ID:           id,
		ResourceType: resource.KindEquipment,
		ResourceID:   resourceID,
		Quantity:     qty,
		Status:       StatusActive,
		StartTime:    start,
		EndTime:      end,
	}
}

func TestOverlappingQuantity(t *testing.T) {
	day := func(hour int) time.Time {
		return time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
	}

	snapshot := []*Reservation{
		activeBooking("r1", "cam-a", 2, day(9), day(12)),
		activeBooking("r2", "cam-a", 1, day(11), day(14)),
		activeBooking("r3", "cam-a", 3, day(14), day(16)), // touches, no overlap at 12-14
		activeBooking("r4", "cam-b", 5, day(9), day(17)),  // different resource
	}
	cancelled := activeBooking("r5", "cam-a", 4, day(9), day(17))
	cancelled.Status = StatusCancelled
	snapshot = append(snapshot, cancelled)

	t.Run("sums only active overlapping rows of the same resource", func(t *testing.T) {
		got := OverlappingQuantity(snapshot, resource.KindEquipment, "cam-a", day(10), day(12), "")
		assert.Equal(t, 3, got) // r1 (2) + r2 (1)
	})

	t.Run("touching interval is not counted", func(t *testing.T) {
		got := OverlappingQuantity(snapshot, resource.KindEquipment, "cam-a", day(12), day(14), "")
		assert.Equal(t, 1, got) // only r2
	})

	t.Run("excludeID removes one reservation from the sum", func(t *testing.T) {
		got := OverlappingQuantity(snapshot, resource.KindEquipment, "cam-a", day(10), day(12), "r1")
		assert.Equal(t, 1, got)
	})

	t.Run("zero quantity rows count as one unit", func(t *testing.T) {
		legacy := []*Reservation{activeBooking("r6", "cam-a", 0, day(9), day(12))}
		got := OverlappingQuantity(legacy, resource.KindEquipment, "cam-a", day(10), day(11), "")
		assert.Equal(t, 1, got)
	})
}

func TestAvailableQuantity(t *testing.T) {
	day := func(hour int) time.Time {
		return time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
	}

	t.Run("five units, two three-unit rentals overlapping differently", func(t *testing.T) {
		res := equipmentResource("cam-a", 5, resource.StatusAvailable)
		snapshot := []*Reservation{
			activeBooking("r1", "cam-a", 3, day(9), day(12)),
			activeBooking("r2", "cam-a", 2, day(11), day(13)),
		}

		assert.Equal(t, 2, AvailableQuantity(res, day(9), day(11), snapshot, ""))
		assert.Equal(t, 0, AvailableQuantity(res, day(11), day(12), snapshot, ""))
		assert.Equal(t, 3, AvailableQuantity(res, day(12), day(13), snapshot, ""))
		assert.Equal(t, 5, AvailableQuantity(res, day(13), day(15), snapshot, ""))
	})

	t.Run("maintenance status forces zero despite free units", func(t *testing.T) {
		res := equipmentResource("cam-a", 5, resource.StatusMaintenance)
		assert.Equal(t, 0, AvailableQuantity(res, day(9), day(10), nil, ""))
	})

	t.Run("lost status forces zero", func(t *testing.T) {
		res := equipmentResource("cam-a", 5, resource.StatusLost)
		assert.Equal(t, 0, AvailableQuantity(res, day(9), day(10), nil, ""))
	})

	t.Run("inactive resource forces zero", func(t *testing.T) {
		res := equipmentResource("cam-a", 5, resource.StatusAvailable)
		res.IsActive = false
		assert.Equal(t, 0, AvailableQuantity(res, day(9), day(10), nil, ""))
	})

	t.Run("over-allocated snapshot clamps at zero", func(t *testing.T) {
		res := equipmentResource("cam-a", 2, resource.StatusAvailable)
		snapshot := []*Reservation{
			activeBooking("r1", "cam-a", 2, day(9), day(12)),
			activeBooking("r2", "cam-a", 2, day(9), day(12)),
		}
		assert.Equal(t, 0, AvailableQuantity(res, day(10), day(11), snapshot, ""))
	})

	t.Run("room books exclusively regardless of seat capacity", func(t *testing.T) {
		seats := 12
		room := &resource.Resource{
			ID:       "room-1",
			Kind:     resource.KindMeetingRoom,
			Name:     "Boardroom",
			IsActive: true,
			Capacity: &seats,
			Quantity: 1,
		}
		booking := &Reservation{
			ID:           "r1",
			ResourceType: resource.KindMeetingRoom,
			ResourceID:   "room-1",
			Quantity:     1,
			Status:       StatusActive,
			StartTime:    day(9),
			EndTime:      day(10),
		}

		assert.Equal(t, 1, AvailableQuantity(room, day(10), day(11), []*Reservation{booking}, ""))
		assert.Equal(t, 0, AvailableQuantity(room, day(9), day(10), []*Reservation{booking}, ""))
	})

	t.Run("excluding own allocation frees its units", func(t *testing.T) {
		res := equipmentResource("cam-a", 3, resource.StatusAvailable)
		snapshot := []*Reservation{
			activeBooking("mine", "cam-a", 2, day(9), day(12)),
			activeBooking("other", "cam-a", 1, day(9), day(12)),
		}
		assert.Equal(t, 0, AvailableQuantity(res, day(10), day(11), snapshot, ""))
		assert.Equal(t, 2, AvailableQuantity(res, day(10), day(11), snapshot, "mine"))
	})
}
