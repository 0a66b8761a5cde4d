package shipping

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/common"
	"github.com/noah-isme/quote-api/internal/obs"
	"github.com/noah-isme/quote-api/internal/parcel"
	"github.com/noah-isme/quote-api/internal/rates"
)

// Handler exposes the shipping quote endpoint.
type Handler struct {
	Resolver *Resolver
	Rates    rates.Config
	Logger   zerolog.Logger
}

type calculateRequest struct {
	ShippingAddress Address       `json:"shippingAddress"`
	Items           []requestItem `json:"items"`
}

type requestItem struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Weight    *float64 `json:"weight"`
}

// Calculate derives the package descriptor and resolves shipping options.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.Resolver == nil {
		common.Fail(w, http.StatusInternalServerError, "shipping resolver not configured")
		return
	}
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		obs.QuoteTotal.WithLabelValues("shipping", "bad_request").Inc()
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]parcel.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		line := parcel.LineItem{ProductID: item.ProductID, Qty: item.Quantity}
		if item.Weight != nil {
			line.UnitWeightKg = *item.Weight
		}
		items = append(items, line)
	}

	pkg, err := parcel.Estimate(items, h.Rates)
	if err != nil {
		obs.QuoteTotal.WithLabelValues("shipping", "bad_request").Inc()
		common.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	options, err := h.Resolver.Resolve(r.Context(), req.ShippingAddress, pkg)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrUnsupportedCountry):
			obs.QuoteTotal.WithLabelValues("shipping", "bad_request").Inc()
			common.Fail(w, http.StatusBadRequest, err.Error())
		default:
			obs.QuoteTotal.WithLabelValues("shipping", "error").Inc()
			h.Logger.Error().Err(err).Msg("shipping resolution failed")
			common.Fail(w, http.StatusInternalServerError, "shipping calculation failed")
		}
		return
	}

	if options == nil {
		options = []Option{}
	}
	obs.QuoteTotal.WithLabelValues("shipping", "ok").Inc()
	common.Success(w, map[string]any{
		"options":           options,
		"packageDimensions": pkg,
	})
}
