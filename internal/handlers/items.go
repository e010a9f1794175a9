package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"inventory-api/internal/domain"
	"inventory-api/internal/domain/price"
	"inventory-api/internal/service/inventory"
	"inventory-api/pkg/api"
	appErrors "inventory-api/pkg/errors"
	"inventory-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Query defaults for GET /query-items/.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// MaxBodyBytes caps request bodies; item bodies are a few dozen bytes.
const MaxBodyBytes = 64 << 10

// CreateItemRequest is the body of POST /items/.
type CreateItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"price,gt=0"`
}

// UpdatePriceRequest is the body of PUT /items/{itemId}/price.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"price,gt=0"`
}

// CreateItemResponse carries the id of the created or updated item.
type CreateItemResponse struct {
	ID string `json:"id"`
}

// ItemHandler handles item HTTP requests with injected dependencies.
type ItemHandler struct {
	service inventory.Service
	logger  *zap.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(service inventory.Service, logger *zap.Logger) *ItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemHandler{service: service, logger: logger}
}

// Routes mounts the item endpoints on r.
func (h *ItemHandler) Routes(r chi.Router) {
	for _, prefix := range []string{"/items", "/items/"} {
		r.Post(prefix, h.CreateOrUpdateItem)
		r.Get(prefix, h.ScanItems)
	}
	r.Get("/query-items", h.QueryItems)
	r.Get("/query-items/", h.QueryItems)
	r.Put("/items/{itemId}/price", h.UpdateItemPrice)
	r.Delete("/items/{itemId}", h.DeleteItem)
}

// CreateOrUpdateItem handles POST /items/
func (h *ItemHandler) CreateOrUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := decodeRequest(w, r, &req); err != nil {
		api.Error(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := utils.ValidateStruct(req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	id, err := h.service.Upsert(r.Context(), inventory.UpsertInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, CreateItemResponse{ID: id})
}

// ScanItems handles GET /items/?dt_from&dt_to&category
func (h *ItemHandler) ScanItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.ScanFiltered(r.Context(), inventory.ScanInput{
		DateFrom: strings.TrimSpace(q.Get("dt_from")),
		DateTo:   strings.TrimSpace(q.Get("dt_to")),
		Category: q.Get("category"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// QueryItems handles GET /query-items/
func (h *ItemHandler) QueryItems(w http.ResponseWriter, r *http.Request) {
	in, err := parseQueryInput(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	result, err := h.service.QueryPaginated(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// UpdateItemPrice handles PUT /items/{itemId}/price
func (h *ItemHandler) UpdateItemPrice(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req UpdatePriceRequest
	if err := decodeRequest(w, r, &req); err != nil {
		api.Error(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	result, err := h.service.UpdatePrice(r.Context(), itemID, req.Price)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// DeleteItem handles DELETE /items/{itemId}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	result, err := h.service.Delete(r.Context(), itemID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// decodeRequest reads a JSON body of at most MaxBodyBytes.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v)
}

// parseQueryInput reads the listing parameters, applying defaults.
func parseQueryInput(r *http.Request) (inventory.QueryInput, error) {
	q := r.URL.Query()
	in := inventory.QueryInput{
		Name:      q.Get("name"),
		Category:  q.Get("category"),
		SortOrder: domain.ParseSortOrder(q.Get("sort_order")),
	}

	var err error
	if in.Page, err = parseQueryInt(r, "page", DefaultPage, 1, math.MaxInt); err != nil {
		return in, err
	}
	if in.Limit, err = parseQueryInt(r, "limit", DefaultLimit, 1, MaxLimit); err != nil {
		return in, err
	}
	if in.PriceMin, err = parseQueryDecimal(r, "price_min"); err != nil {
		return in, err
	}
	if in.PriceMax, err = parseQueryDecimal(r, "price_max"); err != nil {
		return in, err
	}

	field, ok := domain.ParseSortField(q.Get("sort_field"))
	if !ok {
		return in, appErrors.NewValidation("sort_field must be one of: name, category, price")
	}
	in.SortField = field

	return in, nil
}

func parseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.NewValidationf("%s must be an integer", key)
	}
	if value < min || value > max {
		return 0, appErrors.NewValidationf("%s must be between %d and %d", key, min, max)
	}
	return value, nil
}

func parseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, appErrors.NewValidationf("%s must be a number", key)
	}
	if err := price.CheckRange(value); err != nil {
		return nil, appErrors.NewValidationf("%s is out of range", key)
	}
	return &value, nil
}
