package resource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/studioops/reservation-backend/internal/pkg/storage"
)

// CreateInput carries the fields needed to register a new resource.
// Kind-specific fields are ignored for other kinds.
type CreateInput struct {
	Kind         Kind
	Name         string
	Description  *string
	Location     *string
	IsActive     *bool
	Capacity     *int
	LicensePlate *string
	BUCode       *string
	Category     *string
	Quantity     *int
	SerialNumber *string
	Status       *EquipmentStatus
	Notes        *string
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name         *string
	Description  *string
	Location     *string
	IsActive     *bool
	Capacity     *int
	LicensePlate *string
	BUCode       *string
	Category     *string
	Quantity     *int
	SerialNumber *string
	Status       *EquipmentStatus
	Notes        *string
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Resource, error)
	Delete(ctx context.Context, id string) error

	UploadPhoto(ctx context.Context, id string, content io.Reader) error
	GetPhoto(ctx context.Context, id string) (io.ReadCloser, error)
}

type service struct {
	repo    Repository
	store   storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage, imgProc *storage.ImageProcessor) Service {
	return &service{
		repo:    repo,
		store:   store,
		imgProc: imgProc,
	}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Resource, error) {
	if !ValidKind(in.Kind) {
		return nil, ErrInvalidKind
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	res := &Resource{
		Kind:        in.Kind,
		Name:        name,
		Description: in.Description,
		Location:    in.Location,
		IsActive:    true,
		Quantity:    1,
		Status:      StatusAvailable,
		Notes:       in.Notes,
	}
	if in.IsActive != nil {
		res.IsActive = *in.IsActive
	}

	switch in.Kind {
	case KindMeetingRoom:
		res.Capacity = in.Capacity
	case KindVehicle:
		if in.LicensePlate == nil || strings.TrimSpace(*in.LicensePlate) == "" {
			return nil, ErrPlateRequired
		}
		plate := strings.TrimSpace(*in.LicensePlate)
		res.LicensePlate = &plate
	case KindEquipment:
		res.BUCode = in.BUCode
		res.Category = in.Category
		res.SerialNumber = in.SerialNumber
		if in.Quantity != nil {
			if *in.Quantity < 1 {
				return nil, ErrInvalidQuantity
			}
			res.Quantity = *in.Quantity
		}
		if in.Status != nil {
			if !ValidEquipmentStatus(*in.Status) {
				return nil, ErrInvalidStatus
			}
			res.Status = *in.Status
		}
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"resource_id": res.ID,
		"kind":        res.Kind,
		"name":        res.Name,
	}).Info("resource registered")

	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, in UpdateInput) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		res.Name = name
	}
	if in.Description != nil {
		res.Description = in.Description
	}
	if in.Location != nil {
		res.Location = in.Location
	}
	if in.IsActive != nil {
		res.IsActive = *in.IsActive
	}
	if in.Capacity != nil && res.Kind == KindMeetingRoom {
		res.Capacity = in.Capacity
	}
	if in.LicensePlate != nil && res.Kind == KindVehicle {
		plate := strings.TrimSpace(*in.LicensePlate)
		if plate == "" {
			return nil, ErrPlateRequired
		}
		res.LicensePlate = &plate
	}
	if res.Kind == KindEquipment {
		if in.BUCode != nil {
			res.BUCode = in.BUCode
		}
		if in.Category != nil {
			res.Category = in.Category
		}
		if in.Quantity != nil {
			if *in.Quantity < 1 {
				return nil, ErrInvalidQuantity
			}
			res.Quantity = *in.Quantity
		}
		if in.SerialNumber != nil {
			res.SerialNumber = in.SerialNumber
		}
		if in.Status != nil {
			if !ValidEquipmentStatus(*in.Status) {
				return nil, ErrInvalidStatus
			}
			res.Status = *in.Status
		}
	}
	if in.Notes != nil {
		res.Notes = in.Notes
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	busy, err := s.repo.HasActiveReservations(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return ErrActiveReservations
	}

	if res.PhotoPath != nil {
		if err := s.store.Delete(ctx, *res.PhotoPath); err != nil {
			logrus.WithError(err).WithField("resource_id", id).Warn("failed to delete resource photo")
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) UploadPhoto(ctx context.Context, id string, content io.Reader) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	thumb, err := s.imgProc.GenerateThumbnail(content, 1000, 1000)
	if err != nil {
		return fmt.Errorf("failed to process photo: %w", err)
	}

	path := fmt.Sprintf("resources/%s/%s.jpg", res.ID, uuid.NewString())
	if err := s.store.Save(ctx, path, thumb); err != nil {
		return err
	}

	// Replace the previous photo after the new one is durably stored.
	old := res.PhotoPath
	if err := s.repo.SetPhotoPath(ctx, id, &path); err != nil {
		_ = s.store.Delete(ctx, path)
		return err
	}
	if old != nil {
		if err := s.store.Delete(ctx, *old); err != nil {
			logrus.WithError(err).WithField("resource_id", id).Warn("failed to delete old photo")
		}
	}

	return nil
}

func (s *service) GetPhoto(ctx context.Context, id string) (io.ReadCloser, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.PhotoPath == nil {
		return nil, ErrNoPhoto
	}
	return s.store.Get(ctx, *res.PhotoPath)
}
