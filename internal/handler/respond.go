package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/binding"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/repository"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps engine errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	body := errorBody{Error: err.Error()}
	var lookup *catalog.LookupError
	if errors.As(err, &lookup) {
		body.Suggestion = lookup.Suggestion
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, binding.ErrUnknownDocumentLabel):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionClosed):
		status = http.StatusNotFound
	case errors.Is(err, binding.ErrNoCategory),
		errors.Is(err, service.ErrNotReady),
		errors.Is(err, service.ErrSubmissionInFlight),
		errors.Is(err, service.ErrAlreadySubmitted):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTooManyPending):
		status = http.StatusTooManyRequests
	default:
		log.Error("unhandled error", zap.Error(err))
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}
