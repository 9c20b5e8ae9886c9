package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/realtyflow/api/internal/domain/property"
)

// PropertiesRepo is the in-memory mirror of the postgres repo, used by
// handler tests and local hacking without a database.
type PropertiesRepo struct {
	mu    sync.RWMutex
	items map[string]property.Property
}

func NewPropertiesRepo() *PropertiesRepo {
	return &PropertiesRepo{
		items: make(map[string]property.Property),
	}
}

func (r *PropertiesRepo) Create(_ context.Context, req property.CreateRequest, creatorID string) (property.Property, error) {
	p := property.NewFromCreateRequest(req, creatorID)

	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *PropertiesRepo) List(_ context.Context) ([]property.Property, error) {
	r.mu.RLock()
	out := make([]property.Property, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	r.mu.RUnlock()

	// same stable ordering as the SQL repo
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *PropertiesRepo) GetByID(_ context.Context, id string) (property.Property, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return property.Property{}, property.ErrNotFound
	}

	return p, nil
}

func (r *PropertiesRepo) Update(_ context.Context, id string, req property.UpdateRequest) (property.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return property.Property{}, property.ErrNotFound
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.ZipCode != nil {
		p.ZipCode = *req.ZipCode
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.SquareFeet != nil {
		p.SquareFeet = *req.SquareFeet
	}
	if req.YearBuilt != nil {
		p.YearBuilt = req.YearBuilt
	}
	if req.LotSize != nil {
		p.LotSize = req.LotSize
	}
	if req.Garage != nil {
		p.Garage = req.Garage
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.Features != nil {
		p.Features = req.Features
	}

	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p

	return p, nil
}

func (r *PropertiesRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()

	return nil
}
