package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studioops/reservation-backend/internal/auth"
	"github.com/studioops/reservation-backend/internal/pkg/response"
	"github.com/studioops/reservation-backend/internal/recurrence"
	"github.com/studioops/reservation-backend/internal/reservation"
	"github.com/studioops/reservation-backend/internal/resource"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

// respondError maps booking errors onto JSON responses, surfacing the
// computed available quantity for capacity errors.
func respondError(c *gin.Context, err error) {
	var capErr *reservation.CapacityError
	if errors.As(err, &capErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     capErr.Error(),
			"reason":    "capacity_exceeded",
			"available": capErr.Available,
		})
		return
	}
	response.Error(c, err)
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	// Cancelled rows are history; they are returned only when asked for.
	status := req.Status
	switch status {
	case "":
		status = string(reservation.StatusActive)
	case "all":
		status = ""
	}

	filter := reservation.Filter{
		ResourceType: resource.Kind(req.ResourceType),
		ResourceID:   req.ResourceID,
		ReserverID:   req.ReserverID,
		Status:       status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Availability(c *gin.Context) {
	kind := c.Query("resource_type")
	resourceID := c.Query("resource_id")
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
		return
	}

	avail, err := h.service.AvailableQuantity(c.Request.Context(), resource.Kind(kind), resourceID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Total:     avail.Total,
		Booked:    avail.Booked,
		Available: avail.Available,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// Booking requires a business unit, matching the reserver master rules.
	if auth.GetUserBUCode(c) == "" {
		respondError(c, reservation.ErrBURequired)
		return
	}

	req := reservation.CreateRequest{
		ReserverID:   userID,
		ResourceType: resource.Kind(body.ResourceType),
		ResourceID:   body.ResourceID,
		ProjectID:    body.ProjectID,
		TaskID:       body.TaskID,
		Title:        body.Title,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Quantity:     body.Quantity,
		Notes:        body.Notes,
	}

	// Non-repeating requests take the single-create path and return the row.
	if body.Recurrence == nil || body.Recurrence.Type == string(recurrence.TypeNone) {
		r, err := h.service.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, NewReservationResponse(r))
		return
	}

	settings, err := body.Recurrence.ToSettings(body.StartTime.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence end date"})
		return
	}

	results, err := h.service.CreateRecurring(c.Request.Context(), req, settings)
	if err != nil {
		respondError(c, err)
		return
	}

	outcomes := make([]OutcomeResponse, len(results))
	allOK := true
	for i, res := range results {
		start, end := res.Start, res.End
		out := OutcomeResponse{StartTime: &start, EndTime: &end, OK: res.Err == nil}
		if res.Err != nil {
			allOK = false
			out.Error, out.Reason, out.Available = describeError(res.Err)
		} else {
			resp := NewReservationResponse(res.Reservation)
			out.Reservation = &resp
		}
		outcomes[i] = out
	}

	status := http.StatusCreated
	if !allOK {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"results": outcomes})
}

func (h *Handler) CreateBatch(c *gin.Context) {
	var body BatchCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if auth.GetUserBUCode(c) == "" {
		respondError(c, reservation.ErrBURequired)
		return
	}

	base := reservation.CreateRequest{
		ReserverID: userID,
		ProjectID:  body.ProjectID,
		TaskID:     body.TaskID,
		Title:      body.Title,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Notes:      body.Notes,
	}

	lines := make([]reservation.BatchLine, len(body.Lines))
	for i, l := range body.Lines {
		lines[i] = reservation.BatchLine{ResourceID: l.ResourceID, Quantity: l.Quantity}
	}

	results, err := h.service.CreateBatch(c.Request.Context(), base, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	outcomes := make([]OutcomeResponse, len(results))
	allOK := true
	for i, res := range results {
		out := OutcomeResponse{ResourceID: res.ResourceID, OK: res.Err == nil}
		if res.Err != nil {
			allOK = false
			out.Error, out.Reason, out.Available = describeError(res.Err)
		} else {
			resp := NewReservationResponse(res.Reservation)
			out.Reservation = &resp
		}
		outcomes[i] = out
	}

	status := http.StatusCreated
	if !allOK {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"results": outcomes})
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := reservation.UpdateRequest{
		ProjectID: body.ProjectID,
		TaskID:    body.TaskID,
		Title:     body.Title,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Quantity:  body.Quantity,
		Notes:     body.Notes,
	}

	r, err := h.service.Update(c.Request.Context(), id, req, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}
