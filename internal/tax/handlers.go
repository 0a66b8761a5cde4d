package tax

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/quote-api/internal/common"
	"github.com/noah-isme/quote-api/internal/obs"
)

// Handler exposes the tax calculation endpoint.
type Handler struct {
	Calc   Calculator
	Logger zerolog.Logger
}

type calculateRequest struct {
	Subtotal *float64 `json:"subtotal"`
	Shipping *float64 `json:"shipping"`
	Country  string   `json:"country"`
	State    string   `json:"state"`
	Currency string   `json:"currency"`
}

// Calculate computes tax for a subtotal + shipping pair.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		obs.QuoteTotal.WithLabelValues("tax", "bad_request").Inc()
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Subtotal == nil {
		obs.QuoteTotal.WithLabelValues("tax", "bad_request").Inc()
		common.Fail(w, http.StatusBadRequest, "subtotal is required")
		return
	}
	shipping := 0.0
	if req.Shipping != nil {
		shipping = *req.Shipping
	}

	result, err := h.Calc.Calculate(Input{
		Subtotal: *req.Subtotal,
		Shipping: shipping,
		Country:  req.Country,
		State:    req.State,
		Currency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingCountry):
			obs.QuoteTotal.WithLabelValues("tax", "bad_request").Inc()
			common.Fail(w, http.StatusBadRequest, err.Error())
		default:
			obs.QuoteTotal.WithLabelValues("tax", "error").Inc()
			h.Logger.Error().Err(err).Msg("tax calculation failed")
			common.Fail(w, http.StatusInternalServerError, "tax calculation failed")
		}
		return
	}

	obs.QuoteTotal.WithLabelValues("tax", "ok").Inc()
	common.Success(w, map[string]any{
		"taxAmount": result.TaxAmount,
		"total":     result.Total,
		"rate":      result.Rate,
		"currency":  result.Currency,
	})
}
