package intake

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// HTTPHandler renders the intake pipeline over net/http. Method dispatch,
// including the 405 for anything other than POST/OPTIONS, is owned by the
// Service so the lambda entrypoint behaves identically.
type HTTPHandler struct {
	svc *Service
}

// NewHTTPHandler wraps a Service as an http.Handler.
func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Every response carries the permissive cross-origin header. This route
	// is public: the wildcard wins over any allowlist value an upstream
	// middleware may have echoed for the same request.
	w.Header().Set("Access-Control-Allow-Origin", "*")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		body = nil
	}

	res := h.svc.Handle(r.Context(), r.Method, body)
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	if res.Body == nil {
		w.WriteHeader(res.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	json.NewEncoder(w).Encode(res.Body)
}
