package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var validate = validator.New()

// RetrieveRequest is the body of POST /v1/retrieve. K has no upper bound;
// a k larger than the corpus returns every passage.
type RetrieveRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
	K     int    `json:"k" validate:"min=0"`
}

// RetrieveResponse is the body returned by POST /v1/retrieve.
type RetrieveResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status    string              `json:"status"`
	Store     *domain.StoreStatus `json:"store,omitempty"`
	Timestamp string              `json:"timestamp"`
}

// ErrorResponse is the envelope for every error.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type handlers struct {
	deps Deps
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.deps.Status != nil {
		status := h.deps.Status.StoreStatus(r.Context())
		resp.Store = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) retrieve(w http.ResponseWriter, r *http.Request) {
	if h.deps.Retrieval == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "retrieval service not configured")
		return
	}

	var req RetrieveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	req.Query = strings.TrimSpace(req.Query)

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "bad_request",
				Message: "validation failed",
				Fields:  fieldErrors(verrs),
			})
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	results, err := h.deps.Retrieval.Retrieve(r.Context(), req.Query, req.K)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptStore) {
			writeError(w, http.StatusInternalServerError, "corrupt_store",
				"the corpus store is corrupt; re-run ingestion")
			return
		}
		logger.Error("retrieve %q: %v", req.Query, err)
		writeError(w, http.StatusInternalServerError, "internal", "retrieval failed")
		return
	}

	writeJSON(w, http.StatusOK, RetrieveResponse{Results: results})
}

func (h *handlers) invalidate(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Cache == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "no cache configured")
		return
	}
	h.deps.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "min":
			fields[name] = fmt.Sprintf("%s must be at least %s", name, fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("%s must be at most %s", name, fe.Param())
		default:
			fields[name] = fmt.Sprintf("%s failed %q", name, fe.Tag())
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
