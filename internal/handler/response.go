package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailway/internal/dispatch"
	"github.com/dmitrymomot/mailway/internal/store"
	"github.com/dmitrymomot/mailway/pkg/fileval"
)

// errorResponse is the JSON error envelope. Extra fields are populated
// per error class: validation failures carry details, allow-list
// rejections disclose the allowed addresses, provider failures carry
// the id of the stored attempt.
type errorResponse struct {
	Error            string   `json:"error"`
	Code             string   `json:"code,omitempty"`
	Details          any      `json:"details,omitempty"`
	AllowedAddresses []string `json:"allowedAddresses,omitempty"`
	SavedID          int64    `json:"savedId,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// renderError maps domain errors onto the HTTP error taxonomy.
// Unrecognized errors are logged and masked as a generic 500.
func renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		validation *fileval.ValidationError
		notAllowed *dispatch.SenderNotAllowedError
		provider   *dispatch.ProviderError
	)

	switch {
	case errors.Is(err, dispatch.ErrMalformedRequest):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body"})
	case errors.Is(err, dispatch.ErrMissingFields):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields: from, to, subject"})
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   validation.Message,
			Code:    validation.Code,
			Details: validation.Details,
		})
	case errors.As(err, &notAllowed):
		respondJSON(w, http.StatusForbidden, errorResponse{
			Error:            "From address is not allowed",
			AllowedAddresses: notAllowed.Allowed,
		})
	case errors.Is(err, dispatch.ErrTemplateNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Template not found"})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	case errors.Is(err, store.ErrDuplicateTemplateName):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "A template with this name already exists"})
	case errors.As(err, &provider):
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to send email",
			Details: provider.Err.Error(),
			SavedID: provider.RecordID,
		})
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
