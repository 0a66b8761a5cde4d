package promo

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/common"
)

// Handler exposes the storefront promotion lookup.
type Handler struct {
	Svc    *Service
	Logger zerolog.Logger
}

// List returns the eligible promotions for an optional productId or category
// filter. No matches is a successful empty result, never an error.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "promotion service not configured")
		return
	}
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if productID != "" && category != "" {
		common.Fail(w, http.StatusBadRequest, "productId and category are mutually exclusive")
		return
	}

	promotions, err := h.Svc.ListEligible(r.Context(), Target{ProductID: productID, Category: category})
	if err != nil {
		h.Logger.Error().Err(err).Msg("promotion lookup failed")
		common.Fail(w, http.StatusInternalServerError, "failed to load promotions")
		return
	}
	if promotions == nil {
		promotions = []Promotion{}
	}
	common.Success(w, map[string]any{"promotions": promotions})
}
