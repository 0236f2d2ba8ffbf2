package http

import (
	"time"

	"github.com/studioops/reservation-backend/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=meeting_room vehicle equipment"`
	IsActive *bool  `form:"active"`
	BUCode   string `form:"bu_code"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=50" binding:"omitempty,min=1,max=200"`
}

type CreateResourceRequest struct {
	Kind         string  `json:"kind" binding:"required,oneof=meeting_room vehicle equipment"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	IsActive     *bool   `json:"is_active"`
	Capacity     *int    `json:"capacity" binding:"omitempty,min=1"`
	LicensePlate *string `json:"license_plate"`
	BUCode       *string `json:"bu_code"`
	Category     *string `json:"category"`
	Quantity     *int    `json:"quantity" binding:"omitempty,min=1"`
	SerialNumber *string `json:"serial_number"`
	Status       *string `json:"status" binding:"omitempty,oneof=available rented maintenance lost"`
	Notes        *string `json:"notes"`
}

type UpdateResourceRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	IsActive     *bool   `json:"is_active"`
	Capacity     *int    `json:"capacity" binding:"omitempty,min=1"`
	LicensePlate *string `json:"license_plate"`
	BUCode       *string `json:"bu_code"`
	Category     *string `json:"category"`
	Quantity     *int    `json:"quantity" binding:"omitempty,min=1"`
	SerialNumber *string `json:"serial_number"`
	Status       *string `json:"status" binding:"omitempty,oneof=available rented maintenance lost"`
	Notes        *string `json:"notes"`
}

type ResourceResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Location     *string   `json:"location"`
	IsActive     bool      `json:"is_active"`
	Capacity     *int      `json:"capacity,omitempty"`
	LicensePlate *string   `json:"license_plate,omitempty"`
	BUCode       *string   `json:"bu_code,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Quantity     int       `json:"quantity"`
	SerialNumber *string   `json:"serial_number,omitempty"`
	Status       string    `json:"status,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	HasPhoto     bool      `json:"has_photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewResourceResponse(res *resource.Resource) ResourceResponse {
	resp := ResourceResponse{
		ID:           res.ID,
		Kind:         string(res.Kind),
		Name:         res.Name,
		Description:  res.Description,
		Location:     res.Location,
		IsActive:     res.IsActive,
		Capacity:     res.Capacity,
		LicensePlate: res.LicensePlate,
		BUCode:       res.BUCode,
		Category:     res.Category,
		Quantity:     res.Quantity,
		SerialNumber: res.SerialNumber,
		Notes:        res.Notes,
		HasPhoto:     res.PhotoPath != nil,
		CreatedAt:    res.CreatedAt,
		UpdatedAt:    res.UpdatedAt,
	}
	if res.Kind == resource.KindEquipment {
		resp.Status = string(res.Status)
	}
	return resp
}

// ResourceTag is the minimal resource reference embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}
