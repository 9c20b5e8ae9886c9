package property

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("property not found")

const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"
)

// Price, Bathrooms and LotSize travel as decimal strings and are stored as
// NUMERIC columns, so no float rounding ever touches a dollar amount.
type Property struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	PropertyType string    `json:"propertyType"`
	Status       string    `json:"status"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    string    `json:"bathrooms"`
	SquareFeet   int       `json:"squareFeet"`
	YearBuilt    *int      `json:"yearBuilt,omitempty"`
	LotSize      *string   `json:"lotSize,omitempty"`
	Garage       *int      `json:"garage,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Features     []string  `json:"features,omitempty"`
	CreatedBy    *string   `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// decimal/decimalgt/decimalgte are custom rules registered by the HTTP layer.
type CreateRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=200"`
	Description  string   `json:"description" binding:"required,min=20,max=5000"`
	Price        string   `json:"price" binding:"required,decimal,decimalgt=0"`
	Address      string   `json:"address" binding:"required"`
	City         string   `json:"city" binding:"required"`
	State        string   `json:"state" binding:"required"`
	ZipCode      string   `json:"zipCode" binding:"required"`
	PropertyType string   `json:"propertyType" binding:"required,oneof=house apartment condo townhouse land"`
	Status       string   `json:"status" binding:"omitempty,oneof=available pending sold"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms    string   `json:"bathrooms" binding:"required,decimal,decimalgte=0"`
	SquareFeet   int      `json:"squareFeet" binding:"required,gt=0"`
	YearBuilt    *int     `json:"yearBuilt" binding:"omitempty,gte=0"`
	LotSize      *string  `json:"lotSize" binding:"omitempty,decimal,decimalgt=0"`
	Garage       *int     `json:"garage" binding:"omitempty,gte=0"`
	ImageURL     *string  `json:"imageUrl" binding:"omitempty"`
	Features     []string `json:"features" binding:"omitempty,dive,min=1"`
}

// UpdateRequest is a partial patch: nil means "leave the stored value
// alone", so every rule only applies when the field is present.
type UpdateRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=5,max=200"`
	Description  *string  `json:"description" binding:"omitempty,min=20,max=5000"`
	Price        *string  `json:"price" binding:"omitempty,decimal,decimalgt=0"`
	Address      *string  `json:"address" binding:"omitempty,min=1"`
	City         *string  `json:"city" binding:"omitempty,min=1"`
	State        *string  `json:"state" binding:"omitempty,min=1"`
	ZipCode      *string  `json:"zipCode" binding:"omitempty,min=1"`
	PropertyType *string  `json:"propertyType" binding:"omitempty,oneof=house apartment condo townhouse land"`
	Status       *string  `json:"status" binding:"omitempty,oneof=available pending sold"`
	Bedrooms     *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *string  `json:"bathrooms" binding:"omitempty,decimal,decimalgte=0"`
	SquareFeet   *int     `json:"squareFeet" binding:"omitempty,gt=0"`
	YearBuilt    *int     `json:"yearBuilt" binding:"omitempty,gte=0"`
	LotSize      *string  `json:"lotSize" binding:"omitempty,decimal,decimalgt=0"`
	Garage       *int     `json:"garage" binding:"omitempty,gte=0"`
	ImageURL     *string  `json:"imageUrl" binding:"omitempty"`
	Features     []string `json:"features" binding:"omitempty,dive,min=1"`
}

// Empty reports whether the patch carries no fields at all. The repo still
// refreshes updatedAt for an empty patch, matching the merge semantics.
func (r UpdateRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil &&
		r.Address == nil && r.City == nil && r.State == nil &&
		r.ZipCode == nil && r.PropertyType == nil && r.Status == nil &&
		r.Bedrooms == nil && r.Bathrooms == nil && r.SquareFeet == nil &&
		r.YearBuilt == nil && r.LotSize == nil && r.Garage == nil &&
		r.ImageURL == nil && r.Features == nil
}
