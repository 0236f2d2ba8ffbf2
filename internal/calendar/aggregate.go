// Package calendar builds the read-side views of the reservation log:
// day buckets for the month calendar, display groups for the list view, and
// an iCalendar export. Everything here is pure aggregation over a snapshot;
// capacity accounting never looks at these structures.
package calendar

import (
	"fmt"
	"time"

	"github.com/studioops/reservation-backend/internal/reservation"
	"github.com/studioops/reservation-backend/internal/resource"
)

// DayBucket holds the reservations touching one calendar day.
type DayBucket struct {
	Date         time.Time
	Reservations []*reservation.Reservation
}

// MonthBuckets distributes reservations over the days of a month. Membership
// is the interval overlap test against the day's [00:00, 24:00) window, so a
// multi-day reservation appears in every day it touches.
func MonthBuckets(year int, month time.Month, loc *time.Location, items []*reservation.Reservation) []DayBucket {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	var buckets []DayBucket
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		var hits []*reservation.Reservation
		for _, r := range items {
			if r.OverlapsWindow(day, dayEnd) {
				hits = append(hits, r)
			}
		}
		buckets = append(buckets, DayBucket{Date: day, Reservations: hits})
	}
	return buckets
}

// Group is a display grouping of reservations that share reserver, project,
// window, title and resource kind -- e.g. one multi-equipment rental
// submitted as several rows. This is a visual convenience only: every
// underlying row keeps its own identity and capacity accounting.
type Group struct {
	ReserverID   string
	ReserverName string
	ProjectID    *string
	Title        string
	ResourceType resource.Kind
	StartTime    time.Time
	EndTime      time.Time
	Reservations []*reservation.Reservation
}

func groupKey(r *reservation.Reservation) string {
	projectID := ""
	if r.ProjectID != nil {
		projectID = *r.ProjectID
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		r.ReserverID, projectID,
		r.StartTime.UnixNano(), r.EndTime.UnixNano(),
		r.Title, r.ResourceType,
	)
}

// GroupForDisplay merges reservations into display groups, preserving the
// order in which groups first appear in the input.
func GroupForDisplay(items []*reservation.Reservation) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range items {
		key := groupKey(r)
		if i, ok := index[key]; ok {
			groups[i].Reservations = append(groups[i].Reservations, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{
			ReserverID:   r.ReserverID,
			ReserverName: r.ReserverName,
			ProjectID:    r.ProjectID,
			Title:        r.Title,
			ResourceType: r.ResourceType,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			Reservations: []*reservation.Reservation{r},
		})
	}

	return groups
}
