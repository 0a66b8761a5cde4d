package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HTTPRecorder records admin requests after they have been handled.
type HTTPRecorder struct {
	Service Service
	OnError func(error)
}

// Middleware returns a chi-compatible middleware recording one audit entry
// per request. resourceIDParam names the chi URL parameter holding the
// resource id, if any. Recording failures never fail the request.
func (r HTTPRecorder) Middleware(action, resourceIDParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !r.Service.Enabled {
				next.ServeHTTP(w, req)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, req)

			resourceID := ""
			if resourceIDParam != "" {
				resourceID = chi.URLParam(req, resourceIDParam)
			}
			if err := r.Service.Record(req.Context(), action, resourceID, req, recorder.Status()); err != nil && r.OnError != nil {
				r.OnError(err)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
