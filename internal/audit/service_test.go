package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quote-api/internal/common"
)

type memStore struct {
	entries []Entry
	err     error
}

func (m *memStore) InsertAuditEntry(_ context.Context, e Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memStore) ListAuditEntries(context.Context, int, int) ([]Entry, error) {
	return m.entries, m.err
}

func TestRecordDisabled(t *testing.T) {
	svc := Service{Store: &memStore{}, Enabled: false}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/promotions", nil)
	require.NoError(t, svc.Record(req.Context(), "", "", req, http.StatusCreated))
}

func TestRecordCapturesSubjectAndAction(t *testing.T) {
	store := &memStore{}
	svc := Service{Store: store, Enabled: true}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/promotions/abc", nil)
	req.Header.Set("X-Request-ID", "req-7")
	ctx := common.WithSubject(req.Context(), "admin-1")

	require.NoError(t, svc.Record(ctx, "", "abc", req, http.StatusNoContent))
	require.Len(t, store.entries, 1)

	entry := store.entries[0]
	require.NotNil(t, entry.Subject)
	require.Equal(t, "admin-1", *entry.Subject)
	require.Equal(t, "DELETE /api/v1/admin/promotions/abc", entry.Action)
	require.NotNil(t, entry.ResourceID)
	require.Equal(t, "abc", *entry.ResourceID)
	require.Equal(t, int32(http.StatusNoContent), entry.Status)
	require.NotNil(t, entry.RequestID)
	require.Equal(t, "req-7", *entry.RequestID)
}

func TestMiddlewareRecordsAfterHandler(t *testing.T) {
	store := &memStore{}
	recorder := HTTPRecorder{Service: Service{Store: store, Enabled: true}}

	r := chi.NewRouter()
	r.With(recorder.Middleware("promotion.delete", "id")).
		Delete("/admin/promotions/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/promotions/p-9", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, store.entries, 1)
	require.Equal(t, "promotion.delete", store.entries[0].Action)
	require.Equal(t, "p-9", *store.entries[0].ResourceID)
}

func TestMiddlewareFailureDoesNotBreakRequest(t *testing.T) {
	var sawErr error
	recorder := HTTPRecorder{
		Service: Service{Store: &memStore{err: context.DeadlineExceeded}, Enabled: true},
		OnError: func(err error) { sawErr = err },
	}

	handler := recorder.Middleware("promotion.create", "")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/promotions", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Error(t, sawErr)
}
