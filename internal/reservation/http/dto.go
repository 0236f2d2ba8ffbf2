package http

import (
	"errors"
	"time"

	"github.com/studioops/reservation-backend/internal/pkg/apperror"
	"github.com/studioops/reservation-backend/internal/recurrence"
	"github.com/studioops/reservation-backend/internal/reservation"
	resHttp "github.com/studioops/reservation-backend/internal/resource/http"
	userHttp "github.com/studioops/reservation-backend/internal/user/http"
)

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	ResourceType string     `form:"resource_type" binding:"omitempty,oneof=meeting_room vehicle equipment"`
	ResourceID   string     `form:"resource_id" binding:"omitempty,uuid"`
	ReserverID   string     `form:"reserver_id" binding:"omitempty,uuid"`
	Status       string     `form:"status" binding:"omitempty,oneof=active cancelled all"`
	StartDate    *time.Time `form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate      *time.Time `form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy       string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
	SortOrder    string     `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page         int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size,default=50" binding:"omitempty,min=1,max=500"`
}

// RecurrenceRequest mirrors the booking form's repeat settings.
type RecurrenceRequest struct {
	Type       string `json:"type" binding:"required,oneof=none daily weekly monthly yearly"`
	Interval   int    `json:"interval" binding:"omitempty,min=1"`
	WeekDays   []int  `json:"week_days" binding:"omitempty,dive,min=0,max=6"`
	EndDate    string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	HasEndDate bool   `json:"has_end_date"`
}

// ToSettings converts the DTO into expander settings. The end date is parsed
// as a calendar date in the base start's timezone.
func (r *RecurrenceRequest) ToSettings(loc *time.Location) (recurrence.Settings, error) {
	s := recurrence.Settings{
		Type:       recurrence.Type(r.Type),
		Interval:   r.Interval,
		HasEndDate: r.HasEndDate,
	}
	for _, wd := range r.WeekDays {
		s.WeekDays = append(s.WeekDays, time.Weekday(wd))
	}
	if r.HasEndDate && r.EndDate != "" {
		d, err := time.ParseInLocation("2006-01-02", r.EndDate, loc)
		if err != nil {
			return s, err
		}
		s.EndDate = &d
	}
	return s, nil
}

type CreateReservationRequest struct {
	ResourceType string             `json:"resource_type" binding:"required,oneof=meeting_room vehicle equipment"`
	ResourceID   string             `json:"resource_id" binding:"required,uuid"`
	ProjectID    *string            `json:"project_id" binding:"omitempty,uuid"`
	TaskID       *string            `json:"task_id" binding:"omitempty,uuid"`
	Title        string             `json:"title" binding:"required"`
	StartTime    time.Time          `json:"start_time" binding:"required"`
	EndTime      time.Time          `json:"end_time" binding:"required"`
	Quantity     int                `json:"quantity" binding:"omitempty,min=1"`
	Notes        *string            `json:"notes"`
	Recurrence   *RecurrenceRequest `json:"recurrence"`
}

type UpdateReservationRequest struct {
	ProjectID *string    `json:"project_id" binding:"omitempty,uuid"`
	TaskID    *string    `json:"task_id" binding:"omitempty,uuid"`
	Title     *string    `json:"title"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Quantity  *int       `json:"quantity" binding:"omitempty,min=1"`
	Notes     *string    `json:"notes"`
}

type BatchLineRequest struct {
	ResourceID string `json:"resource_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"omitempty,min=1"`
}

type BatchCreateRequest struct {
	ProjectID *string            `json:"project_id" binding:"omitempty,uuid"`
	TaskID    *string            `json:"task_id" binding:"omitempty,uuid"`
	Title     string             `json:"title" binding:"required"`
	StartTime time.Time          `json:"start_time" binding:"required"`
	EndTime   time.Time          `json:"end_time" binding:"required"`
	Notes     *string            `json:"notes"`
	Lines     []BatchLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type ReservationResponse struct {
	ID        string              `json:"id"`
	Resource  resHttp.ResourceTag `json:"resource"`
	Reserver  userHttp.UserTag    `json:"reserver"`
	ProjectID *string             `json:"project_id"`
	TaskID    *string             `json:"task_id"`
	Title     string              `json:"title"`
	StartTime time.Time           `json:"start_time"`
	EndTime   time.Time           `json:"end_time"`
	Quantity  int                 `json:"quantity"`
	Status    string              `json:"status"`
	Notes     *string             `json:"notes"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		Resource:  resHttp.ResourceTag{ID: r.ResourceID, Name: r.ResourceName, Kind: string(r.ResourceType)},
		Reserver:  userHttp.UserTag{ID: r.ReserverID, Name: r.ReserverName},
		ProjectID: r.ProjectID,
		TaskID:    r.TaskID,
		Title:     r.Title,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Quantity:  r.Quantity,
		Status:    string(r.Status),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type AvailabilityResponse struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

// OutcomeResponse is the per-occurrence / per-line result of a batch
// submission. Exactly one of Reservation or Error is set.
type OutcomeResponse struct {
	ResourceID  string               `json:"resource_id,omitempty"`
	StartTime   *time.Time           `json:"start_time,omitempty"`
	EndTime     *time.Time           `json:"end_time,omitempty"`
	OK          bool                 `json:"ok"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
	Error       string               `json:"error,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Available   *int                 `json:"available,omitempty"`
}

// describeError turns a booking error into message/reason/available fields.
func describeError(err error) (msg, reason string, available *int) {
	var capErr *reservation.CapacityError
	if errors.As(err, &capErr) {
		a := capErr.Available
		return capErr.Error(), "capacity_exceeded", &a
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message, appErr.Reason, nil
	}
	return "internal error", "internal", nil
}
