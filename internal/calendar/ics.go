package calendar

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"github.com/studioops/reservation-backend/internal/reservation"
)

const icsProductID = "-//studioops//reservation-backend//EN"

// BuildICS renders reservations as an iCalendar feed so the booking calendar
// can be subscribed to from external calendar clients.
func BuildICS(items []*reservation.Reservation) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, r := range items {
		ev := cal.AddEvent(r.ID)
		ev.SetDtStampTime(r.UpdatedAt)
		ev.SetCreatedTime(r.CreatedAt)
		ev.SetStartAt(r.StartTime)
		ev.SetEndAt(r.EndTime)

		summary := r.Title
		if r.ResourceName != "" {
			summary = fmt.Sprintf("%s (%s)", r.Title, r.ResourceName)
		}
		ev.SetSummary(summary)

		description := fmt.Sprintf("Reserved by %s", r.ReserverName)
		if r.Quantity > 1 {
			description += fmt.Sprintf(", %d units", r.Quantity)
		}
		if r.Notes != nil && *r.Notes != "" {
			description += "\n" + *r.Notes
		}
		ev.SetDescription(description)

		if r.Status == reservation.StatusCancelled {
			ev.SetStatus(ical.ObjectStatusCancelled)
		} else {
			ev.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return cal
}
