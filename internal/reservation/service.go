package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studioops/reservation-backend/internal/recurrence"
	"github.com/studioops/reservation-backend/internal/resource"
)

// CreateRequest is a single proposed booking.
type CreateRequest struct {
	ReserverID   string
	ResourceType resource.Kind
	ResourceID   string
	ProjectID    *string
	TaskID       *string
	Title        string
	StartTime    time.Time
	EndTime      time.Time
	Quantity     int // 0 means 1
	Notes        *string
}

// UpdateRequest is a partial edit; nil fields are left unchanged. Changing
// StartTime, EndTime or Quantity re-runs the capacity check with the
// reservation's own allocation excluded.
type UpdateRequest struct {
	ProjectID *string
	TaskID    *string
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Quantity  *int
	Notes     *string
}

// Availability is the free-quantity report for one resource and window.
type Availability struct {
	Total     int
	Booked    int
	Available int
}

// OccurrenceResult reports the outcome of one expanded occurrence. Err is nil
// on success. Occurrences are independent: a failure does not roll back
// earlier successes.
type OccurrenceResult struct {
	Start       time.Time
	End         time.Time
	Reservation *Reservation
	Err         error
}

// BatchLine is one resource selection in a multi-equipment booking.
type BatchLine struct {
	ResourceID string
	Quantity   int
}

// BatchResult reports the outcome of one line of a multi-resource booking.
type BatchResult struct {
	ResourceID  string
	Quantity    int
	Reservation *Reservation
	Err         error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	CreateRecurring(ctx context.Context, req CreateRequest, settings recurrence.Settings) ([]OccurrenceResult, error)
	CreateBatch(ctx context.Context, base CreateRequest, lines []BatchLine) ([]BatchResult, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	AvailableQuantity(ctx context.Context, kind resource.Kind, resourceID string, start, end time.Time) (*Availability, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterID string, isAdmin bool) (*Reservation, error)
	Cancel(ctx context.Context, id string, requesterID string, isAdmin bool) (*Reservation, error)
}

type service struct {
	repo       Repository
	resService resource.Service
}

func NewService(repo Repository, resService resource.Service) Service {
	return &service{
		repo:       repo,
		resService: resService,
	}
}

// resolveResource validates the (kind, id) pair and returns the master record.
func (s *service) resolveResource(ctx context.Context, kind resource.Kind, resourceID string) (*resource.Resource, error) {
	if resourceID == "" {
		return nil, ErrResourceNotFound
	}
	res, err := s.resService.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if res.Kind != kind {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

// validate runs the short-circuiting input checks of a booking request and
// returns the resolved resource. The capacity check is not here: it is one
// operation with the overlap sum, performed by the repository at append time.
func (s *service) validate(ctx context.Context, req *CreateRequest) (*resource.Resource, error) {
	res, err := s.resolveResource(ctx, req.ResourceType, req.ResourceID)
	if err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	// Quantity is meaningful only for equipment; rooms and vehicles book
	// exclusively.
	if res.Kind != resource.KindEquipment {
		req.Quantity = 1
	}

	if !res.Bookable() {
		return nil, ErrResourceUnavailable
	}

	return res, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	res, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	rsv := &Reservation{
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		ResourceName: res.Name,
		ReserverID:   req.ReserverID,
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		Title:        req.Title,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Quantity:     req.Quantity,
		Status:       StatusActive,
		Notes:        req.Notes,
	}

	if err := s.repo.CreateChecked(ctx, rsv, res.TotalQuantity()); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": rsv.ID,
		"resource_type":  rsv.ResourceType,
		"resource_id":    rsv.ResourceID,
		"quantity":       rsv.Quantity,
	}).Info("reservation created")

	return rsv, nil
}

func (s *service) CreateRecurring(ctx context.Context, req CreateRequest, settings recurrence.Settings) ([]OccurrenceResult, error) {
	// The base request goes through the same ordered input checks as a single
	// booking (resource, title, times, quantity) before any repeat-rule
	// concern is looked at.
	if _, err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	if settings.Type == recurrence.TypeWeekly && len(settings.WeekDays) == 0 {
		return nil, ErrWeekdaysRequired
	}

	windows, err := recurrence.Expand(req.StartTime, req.EndTime, settings)
	if err != nil {
		switch {
		case errors.Is(err, recurrence.ErrWeekdaysRequired):
			return nil, ErrWeekdaysRequired
		case errors.Is(err, recurrence.ErrInvalidWindow):
			return nil, ErrInvalidTimeRange
		}
		return nil, err
	}

	// Occurrences are submitted sequentially so each one observes the effect
	// of the previously committed ones on the same resource. A failure on
	// occurrence k leaves occurrences 1..k-1 committed.
	results := make([]OccurrenceResult, 0, len(windows))
	for _, w := range windows {
		if ctx.Err() != nil {
			break
		}
		occReq := req
		occReq.StartTime = w.Start
		occReq.EndTime = w.End

		rsv, err := s.Create(ctx, occReq)
		results = append(results, OccurrenceResult{
			Start:       w.Start,
			End:         w.End,
			Reservation: rsv,
			Err:         err,
		})
	}

	return results, nil
}

func (s *service) CreateBatch(ctx context.Context, base CreateRequest, lines []BatchLine) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(lines))

	// Each selected resource is booked independently; one line failing does
	// not undo the others.
	for _, line := range lines {
		if ctx.Err() != nil {
			break
		}

		req := base
		req.ResourceType = resource.KindEquipment
		req.ResourceID = line.ResourceID
		req.Quantity = line.Quantity

		avail, err := s.AvailableQuantity(ctx, resource.KindEquipment, line.ResourceID, base.StartTime, base.EndTime)
		if err == nil {
			if avail.Available == 0 {
				results = append(results, BatchResult{
					ResourceID: line.ResourceID,
					Quantity:   req.Quantity,
					Err:        &CapacityError{Requested: req.Quantity, Available: 0},
				})
				continue
			}
			// Clamp the requested quantity into [1, available]; the append
			// re-verifies under lock.
			if req.Quantity < 1 {
				req.Quantity = 1
			}
			if req.Quantity > avail.Available {
				req.Quantity = avail.Available
			}
		}

		rsv, err := s.Create(ctx, req)
		results = append(results, BatchResult{
			ResourceID:  line.ResourceID,
			Quantity:    req.Quantity,
			Reservation: rsv,
			Err:         err,
		})
	}

	return results, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) AvailableQuantity(ctx context.Context, kind resource.Kind, resourceID string, start, end time.Time) (*Availability, error) {
	res, err := s.resolveResource(ctx, kind, resourceID)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	// Fresh snapshot per query; prior results are invalid after any booking
	// or cancellation on this resource.
	snapshot, err := s.repo.ListOverlapping(ctx, kind, resourceID, start, end)
	if err != nil {
		return nil, err
	}

	total := res.TotalQuantity()
	available := AvailableQuantity(res, start, end, snapshot, "")
	booked := OverlappingQuantity(snapshot, kind, resourceID, start, end, "")

	return &Availability{
		Total:     total,
		Booked:    booked,
		Available: available,
	}, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterID string, isAdmin bool) (*Reservation, error) {
	rsv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rsv.ReserverID != updaterID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	if rsv.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if req.ProjectID != nil {
		rsv.ProjectID = req.ProjectID
	}
	if req.TaskID != nil {
		rsv.TaskID = req.TaskID
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		rsv.Title = title
	}
	if req.Notes != nil {
		rsv.Notes = req.Notes
	}

	allocChanged := false
	if req.StartTime != nil {
		rsv.StartTime = *req.StartTime
		allocChanged = true
	}
	if req.EndTime != nil {
		rsv.EndTime = *req.EndTime
		allocChanged = true
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		rsv.Quantity = *req.Quantity
		allocChanged = true
	}

	if !allocChanged {
		if err := s.repo.Update(ctx, rsv); err != nil {
			return nil, err
		}
		return rsv, nil
	}

	if !rsv.EndTime.After(rsv.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	res, err := s.resolveResource(ctx, rsv.ResourceType, rsv.ResourceID)
	if err != nil {
		return nil, err
	}
	if rsv.ResourceType != resource.KindEquipment {
		rsv.Quantity = 1
	}

	// Re-validated as if booked fresh, minus the reservation's own prior
	// allocation.
	if err := s.repo.UpdateChecked(ctx, rsv, res.TotalQuantity()); err != nil {
		return nil, err
	}

	return rsv, nil
}

func (s *service) Cancel(ctx context.Context, id string, requesterID string, isAdmin bool) (*Reservation, error) {
	rsv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rsv.ReserverID != requesterID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	if rsv.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		return nil, err
	}
	rsv.Status = StatusCancelled

	logrus.WithFields(logrus.Fields{
		"reservation_id": id,
		"resource_id":    rsv.ResourceID,
	}).Info("reservation cancelled")

	return rsv, nil
}
