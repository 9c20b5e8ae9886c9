package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/cache"
	"github.com/realtyflow/api/internal/domain/property"
	"github.com/realtyflow/api/internal/http/middlewares"
	"github.com/realtyflow/api/internal/observability"
)

// PropertiesStore is satisfied by both the postgres and memory repos.
type PropertiesStore interface {
	Create(ctx context.Context, req property.CreateRequest, creatorID string) (property.Property, error)
	List(ctx context.Context) ([]property.Property, error)
	GetByID(ctx context.Context, id string) (property.Property, error)
	Update(ctx context.Context, id string, req property.UpdateRequest) (property.Property, error)
	Delete(ctx context.Context, id string) error
}

type PropertiesHandler struct {
	repo  PropertiesStore
	cache cache.Store
	obs   *observability.Prom
}

func NewPropertiesHandler(repo PropertiesStore, store cache.Store, obs *observability.Prom) *PropertiesHandler {
	return &PropertiesHandler{repo: repo, cache: store, obs: obs}
}

type listResponse struct {
	Items []property.Property `json:"items"`
	Count int                 `json:"count"`
}

func (h *PropertiesHandler) ListProperties(ctx *gin.Context) {
	rctx := ctx.Request.Context()

	if h.cache != nil {
		if body, ok := h.cache.Get(rctx, cache.PropertiesListKey); ok {
			h.observeCache("hit")
			RespondJSONBytesWithETag(ctx, http.StatusOK, body)
			return
		}
		h.observeCache("miss")
	}

	items, err := h.repo.List(rctx)

	if err != nil {
		RespondInternal(ctx, "Could not list properties")
		return
	}

	body, err := json.Marshal(listResponse{Items: items, Count: len(items)})

	if err != nil {
		RespondInternal(ctx, "Could not list properties")
		return
	}

	if h.cache != nil {
		h.cache.Set(rctx, cache.PropertiesListKey, body)
	}

	RespondJSONBytesWithETag(ctx, http.StatusOK, body)
}

func (h *PropertiesHandler) GetPropertyByID(ctx *gin.Context) {
	id := ctx.Param("id")

	p, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			RespondNotFound(ctx, "Property not found")
			return
		}
		RespondInternal(ctx, "Could not fetch property")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PropertiesHandler) CreateProperty(ctx *gin.Context) {
	var req property.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	creatorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || creatorID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	p, err := h.repo.Create(ctx.Request.Context(), req, creatorID)

	if err != nil {
		RespondInternal(ctx, "Could not create property")
		return
	}

	// stale list entry goes before the 201 is written
	h.invalidateList(ctx.Request.Context())

	ctx.JSON(http.StatusCreated, p)
}

func (h *PropertiesHandler) UpdateProperty(ctx *gin.Context) {
	id := ctx.Param("id")

	var req property.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	p, err := h.repo.Update(ctx.Request.Context(), id, req)

	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			RespondNotFound(ctx, "Property not found")
			return
		}
		RespondInternal(ctx, "Could not update property")
		return
	}

	h.invalidateList(ctx.Request.Context())

	ctx.JSON(http.StatusOK, p)
}

func (h *PropertiesHandler) DeleteProperty(ctx *gin.Context) {
	id := ctx.Param("id")

	// deleting an unknown id is still a success
	err := h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		RespondInternal(ctx, "Could not delete property")
		return
	}

	h.invalidateList(ctx.Request.Context())

	ctx.Status(http.StatusNoContent)
}

func (h *PropertiesHandler) invalidateList(ctx context.Context) {
	if h.cache != nil {
		h.cache.Delete(ctx, cache.PropertiesListKey)
	}
}

func (h *PropertiesHandler) observeCache(result string) {
	if h.obs != nil {
		h.obs.CacheResults.WithLabelValues(cache.PropertiesListKey, result).Inc()
	}
}
