package promo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/common"
)

// AdminHandler exposes management endpoints for promotion records.
type AdminHandler struct {
	Svc         *Service
	Validate    *validator.Validate
	Logger      zerolog.Logger
	DefaultPage int
}

type promotionRequest struct {
	Name          string    `json:"name" validate:"required"`
	DiscountType  string    `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue float64   `json:"discountValue" validate:"required,gt=0"`
	AppliesTo     string    `json:"appliesTo" validate:"required,oneof=all category product products"`
	Category      *string   `json:"category"`
	ProductIDs    []string  `json:"productIds"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required"`
	IsActive      *bool     `json:"isActive"`
	Priority      int32     `json:"priority"`
	MaxUses       *int32    `json:"maxUses" validate:"omitempty,gt=0"`
}

func (h *AdminHandler) decode(r *http.Request) (Promotion, string) {
	var req promotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Promotion{}, "invalid payload"
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return Promotion{}, err.Error()
		}
	}
	if req.DiscountType == DiscountPercentage && req.DiscountValue > 100 {
		return Promotion{}, "percentage discount cannot exceed 100"
	}
	if !req.EndDate.After(req.StartDate) {
		return Promotion{}, "endDate must be after startDate"
	}
	scope := Scope(req.AppliesTo)
	switch scope {
	case ScopeCategory:
		if req.Category == nil || strings.TrimSpace(*req.Category) == "" {
			return Promotion{}, "category is required for category-scoped promotions"
		}
	case ScopeProduct, ScopeProducts:
		if len(req.ProductIDs) == 0 {
			return Promotion{}, "productIds is required for product-scoped promotions"
		}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return Promotion{
		Name:          strings.TrimSpace(req.Name),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		AppliesTo:     scope,
		Category:      req.Category,
		ProductIDs:    req.ProductIDs,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      active,
		Priority:      req.Priority,
		MaxUses:       req.MaxUses,
	}, ""
}

// Create registers a new promotion.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service unavailable", nil)
		return
	}
	p, msg := h.decode(r)
	if msg != "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", msg, nil)
		return
	}
	created, err := h.Svc.Create(r.Context(), p)
	if err != nil {
		h.Logger.Error().Err(err).Msg("promotion create failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create promotion", nil)
		return
	}
	common.JSON(w, http.StatusCreated, created)
}

// Update replaces an existing promotion.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service unavailable", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	p, msg := h.decode(r)
	if msg != "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", msg, nil)
		return
	}
	p.ID = id
	updated, err := h.Svc.Update(r.Context(), p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		h.Logger.Error().Err(err).Msg("promotion update failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, updated)
}

// Get fetches one promotion by ID.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service unavailable", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		h.Logger.Error().Err(err).Msg("promotion fetch failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, p)
}

// List returns a page of promotions with pagination metadata.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service unavailable", nil)
		return
	}
	perPageDefault := h.DefaultPage
	if perPageDefault <= 0 {
		perPageDefault = 50
	}
	page, perPage := common.ParsePagination(r, perPageDefault)
	promotions, total, err := h.Svc.ListPage(r.Context(), page, perPage)
	if err != nil {
		h.Logger.Error().Err(err).Msg("promotion list failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list promotions", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": promotions,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

// Delete removes a promotion by ID.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service unavailable", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		h.Logger.Error().Err(err).Msg("promotion delete failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete promotion", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
