package http

import (
	"time"

	"github.com/studioops/reservation-backend/internal/calendar"
	rsvHttp "github.com/studioops/reservation-backend/internal/reservation/http"
)

// CalendarRequest defines query parameters for the month calendar view.
type CalendarRequest struct {
	Year         int    `form:"year" binding:"required,min=2000,max=2200"`
	Month        int    `form:"month" binding:"required,min=1,max=12"`
	ResourceType string `form:"resource_type" binding:"omitempty,oneof=meeting_room vehicle equipment"`
	ResourceID   string `form:"resource_id" binding:"omitempty,uuid"`
}

// ExportRequest defines query parameters for the ICS feed.
type ExportRequest struct {
	ResourceType string `form:"resource_type" binding:"omitempty,oneof=meeting_room vehicle equipment"`
	ResourceID   string `form:"resource_id" binding:"omitempty,uuid"`
	ReserverID   string `form:"reserver_id" binding:"omitempty,uuid"`
}

type GroupResponse struct {
	ReserverID   string                        `json:"reserver_id"`
	ReserverName string                        `json:"reserver_name"`
	ProjectID    *string                       `json:"project_id"`
	Title        string                        `json:"title"`
	ResourceType string                        `json:"resource_type"`
	StartTime    time.Time                     `json:"start_time"`
	EndTime      time.Time                     `json:"end_time"`
	Reservations []rsvHttp.ReservationResponse `json:"reservations"`
}

func NewGroupResponse(g calendar.Group) GroupResponse {
	items := make([]rsvHttp.ReservationResponse, len(g.Reservations))
	for i, r := range g.Reservations {
		items[i] = rsvHttp.NewReservationResponse(r)
	}
	return GroupResponse{
		ReserverID:   g.ReserverID,
		ReserverName: g.ReserverName,
		ProjectID:    g.ProjectID,
		Title:        g.Title,
		ResourceType: string(g.ResourceType),
		StartTime:    g.StartTime,
		EndTime:      g.EndTime,
		Reservations: items,
	}
}

type DayResponse struct {
	Date   string          `json:"date"`
	Groups []GroupResponse `json:"groups"`
}

type CalendarResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}
