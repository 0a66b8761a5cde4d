package audit

import (
	"net/http"

	"github.com/noah-isme/quote-api/internal/common"
)

// Handler exposes the admin audit trail listing.
type Handler struct {
	Store       Store
	DefaultPage int
}

// List returns recent audit entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "audit store unavailable", nil)
		return
	}
	perPageDefault := h.DefaultPage
	if perPageDefault <= 0 {
		perPageDefault = 50
	}
	page, perPage := common.ParsePagination(r, perPageDefault)
	entries, err := h.Store.ListAuditEntries(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list audit entries", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entries})
}
