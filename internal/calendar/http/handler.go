package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studioops/reservation-backend/internal/calendar"
	"github.com/studioops/reservation-backend/internal/pkg/response"
	"github.com/studioops/reservation-backend/internal/reservation"
	"github.com/studioops/reservation-backend/internal/resource"
)

// calendarPageSize bounds the snapshot fetched for a calendar view. A month
// of bookings across all resources stays well under this in practice.
const calendarPageSize = 2000

// exportHorizon is how far into the past and future the ICS feed reaches.
const (
	exportLookback = 30 * 24 * time.Hour
	exportHorizon  = 365 * 24 * time.Hour
)

type Handler struct {
	service  reservation.Service
	location *time.Location
}

func NewHandler(service reservation.Service, location *time.Location) *Handler {
	return &Handler{service: service, location: location}
}

// Month renders the month calendar: one bucket per day, reservations merged
// into display groups within each day.
func (h *Handler) Month(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	month := time.Month(req.Month)
	monthStart := time.Date(req.Year, month, 1, 0, 0, 0, 0, h.location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	filter := reservation.Filter{
		ResourceType: resource.Kind(req.ResourceType),
		ResourceID:   req.ResourceID,
		Status:       string(reservation.StatusActive),
		StartDate:    &monthStart,
		EndDate:      &monthEnd,
		SortBy:       "start_time",
		SortOrder:    "asc",
		Page:         1,
		PageSize:     calendarPageSize,
	}

	items, _, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	buckets := calendar.MonthBuckets(req.Year, month, h.location, items)
	days := make([]DayResponse, len(buckets))
	for i, b := range buckets {
		groups := calendar.GroupForDisplay(b.Reservations)
		day := DayResponse{Date: b.Date.Format("2006-01-02"), Groups: make([]GroupResponse, len(groups))}
		for j, g := range groups {
			day.Groups[j] = NewGroupResponse(g)
		}
		days[i] = day
	}

	c.JSON(http.StatusOK, CalendarResponse{Year: req.Year, Month: req.Month, Days: days})
}

// Export serves active reservations as an iCalendar feed.
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	now := time.Now().In(h.location)
	windowStart := now.Add(-exportLookback)
	windowEnd := now.Add(exportHorizon)

	filter := reservation.Filter{
		ResourceType: resource.Kind(req.ResourceType),
		ResourceID:   req.ResourceID,
		ReserverID:   req.ReserverID,
		Status:       string(reservation.StatusActive),
		StartDate:    &windowStart,
		EndDate:      &windowEnd,
		SortBy:       "start_time",
		SortOrder:    "asc",
		Page:         1,
		PageSize:     calendarPageSize,
	}

	items, _, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	cal := calendar.BuildICS(items)

	logrus.WithField("events", len(items)).Debug("serving ICS export")
	c.Header("Content-Disposition", `attachment; filename="reservations.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
