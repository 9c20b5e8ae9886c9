package property

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest stamps server-owned fields: id, timestamps, the
// creator, and the default status. Any creator hint in the payload never
// reaches this point; attribution always comes from the session.
func NewFromCreateRequest(req CreateRequest, creatorID string) Property {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusAvailable
	}

	createdBy := creatorID

	return Property{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		PropertyType: req.PropertyType,
		Status:       status,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		YearBuilt:    req.YearBuilt,
		LotSize:      req.LotSize,
		Garage:       req.Garage,
		ImageURL:     req.ImageURL,
		Features:     req.Features,
		CreatedBy:    &createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
