package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reservation-backend/internal/reservation"
	"github.com/studioops/reservation-backend/internal/resource"
)

func rsv(id string, start, end time.Time) *reservation.Reservation {
	return &reservation.Reservation{
		ID:           id,
		ResourceType: resource.KindEquipment,
		ResourceID:   "cam-a",
		ReserverID:   "user-1",
		ReserverName: "Alex",
		Title:        "Shoot",
		StartTime:    start,
		EndTime:      end,
		Quantity:     1,
		Status:       reservation.StatusActive,
	}
}

func TestMonthBuckets(t *testing.T) {
	loc := time.UTC
	d := func(day, hour int) time.Time {
		return time.Date(2024, 6, day, hour, 0, 0, 0, loc)
	}

	items := []*reservation.Reservation{
		rsv("single", d(10, 9), d(10, 11)),
		rsv("multiday", d(14, 22), d(16, 2)),
		rsv("midnight-touch", d(20, 8), d(21, 0)), // ends exactly at midnight
	}

	buckets := MonthBuckets(2024, time.June, loc, items)
	require.Len(t, buckets, 30)

	byDay := func(day int) []*reservation.Reservation {
		return buckets[day-1].Reservations
	}

	assert.Equal(t, d(1, 0), buckets[0].Date)
	assert.Empty(t, byDay(9))
	require.Len(t, byDay(10), 1)
	assert.Equal(t, "single", byDay(10)[0].ID)
	assert.Empty(t, byDay(11))

	// A reservation spanning midnight appears on every day it touches.
	for _, day := range []int{14, 15, 16} {
		require.Len(t, byDay(day), 1, "day %d", day)
		assert.Equal(t, "multiday", byDay(day)[0].ID)
	}
	assert.Empty(t, byDay(17))

	// Ending at midnight does not leak into the next day.
	require.Len(t, byDay(20), 1)
	assert.Empty(t, byDay(21))
}

func TestGroupForDisplay(t *testing.T) {
	d := func(hour int) time.Time {
		return time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
	}
	project := "proj-1"

	a := rsv("a", d(9), d(12))
	a.ProjectID = &project
	b := rsv("b", d(9), d(12))
	b.ProjectID = &project
	b.ResourceID = "cam-b" // different resource, same submission

	otherTitle := rsv("c", d(9), d(12))
	otherTitle.ProjectID = &project
	otherTitle.Title = "Different"

	otherWindow := rsv("d", d(13), d(14))
	otherWindow.ProjectID = &project

	noProject := rsv("e", d(9), d(12))

	groups := GroupForDisplay([]*reservation.Reservation{a, b, otherTitle, otherWindow, noProject})
	require.Len(t, groups, 4)

	// First-seen order is preserved; a and b merge.
	require.Len(t, groups[0].Reservations, 2)
	assert.Equal(t, "a", groups[0].Reservations[0].ID)
	assert.Equal(t, "b", groups[0].Reservations[1].ID)
	assert.Equal(t, "Shoot", groups[0].Title)

	assert.Equal(t, "Different", groups[1].Title)
	assert.Equal(t, d(13), groups[2].StartTime)
	assert.Nil(t, groups[3].ProjectID)
}

func TestBuildICS(t *testing.T) {
	d := func(hour int) time.Time {
		return time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
	}

	active := rsv("evt-1", d(9), d(11))
	active.ResourceName = "Camera A"
	cancelled := rsv("evt-2", d(13), d(14))
	cancelled.Status = reservation.StatusCancelled

	cal := BuildICS([]*reservation.Reservation{active, cancelled})
	serialized := cal.Serialize()

	assert.Contains(t, serialized, "BEGIN:VCALENDAR")
	assert.Contains(t, serialized, "METHOD:PUBLISH")
	assert.Contains(t, serialized, "UID:evt-1")
	assert.Contains(t, serialized, "UID:evt-2")
	assert.Contains(t, serialized, "Shoot (Camera A)")
	assert.Contains(t, serialized, "STATUS:CONFIRMED")
	assert.Contains(t, serialized, "STATUS:CANCELLED")
	assert.Equal(t, 2, strings.Count(serialized, "BEGIN:VEVENT"))
}
