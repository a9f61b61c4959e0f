package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailway/internal/dispatch"
	"github.com/dmitrymomot/mailway/internal/store"
	"github.com/dmitrymomot/mailway/pkg/tmplvar"
)

type templateStore interface {
	Create(ctx context.Context, p store.CreateTemplateParams) (int64, error)
	List(ctx context.Context) ([]store.Template, error)
	GetByID(ctx context.Context, id int64) (*store.Template, error)
	Update(ctx context.Context, id int64, p store.UpdateTemplateParams) error
	Delete(ctx context.Context, id int64) error
}

// TemplateHandler serves template CRUD endpoints.
type TemplateHandler struct {
	templates templateStore
	log       *slog.Logger
}

// NewTemplateHandler wires a TemplateHandler.
func NewTemplateHandler(templates templateStore, log *slog.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, log: log}
}

// templateRequest mirrors the send request field names: text and html
// carry the bodies. Responses use the stored column names.
type templateRequest struct {
	Name      *string   `json:"name"`
	Subject   *string   `json:"subject"`
	Text      *string   `json:"text"`
	HTML      *string   `json:"html"`
	Variables *[]string `json:"variables"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, h.log, errors.Join(dispatch.ErrMalformedRequest, err))
		return
	}
	if req.Name == nil || *req.Name == "" || req.Subject == nil || *req.Subject == "" {
		badRequest(w, "Missing required fields: name, subject")
		return
	}

	params := store.CreateTemplateParams{
		Name:     *req.Name,
		Subject:  *req.Subject,
		BodyText: orEmpty(req.Text),
		BodyHTML: orEmpty(req.HTML),
	}
	if req.Variables != nil {
		params.Variables = *req.Variables
	} else {
		// Derive the variable list from the tokens used in the content.
		params.Variables = tmplvar.ExtractAll(params.Subject, params.BodyText, params.BodyHTML)
	}

	id, err := h.templates.Create(r.Context(), params)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"total":     len(templates),
	})
}

// Get handles GET /api/templates/{id}.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "Invalid template id")
		return
	}

	tmpl, err := h.templates.GetByID(r.Context(), id)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, tmpl)
}

// Update handles PUT /api/templates/{id}. Absent fields keep their
// stored value. When content changes without an explicit variable list,
// the list is re-derived from the updated content.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "Invalid template id")
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, h.log, errors.Join(dispatch.ErrMalformedRequest, err))
		return
	}
	if req.Name != nil && *req.Name == "" {
		badRequest(w, "Template name cannot be empty")
		return
	}
	if req.Subject != nil && *req.Subject == "" {
		badRequest(w, "Template subject cannot be empty")
		return
	}

	params := store.UpdateTemplateParams{
		Name:      req.Name,
		Subject:   req.Subject,
		BodyText:  req.Text,
		BodyHTML:  req.HTML,
		Variables: req.Variables,
	}

	contentChanged := req.Subject != nil || req.Text != nil || req.HTML != nil
	if req.Variables == nil && contentChanged {
		current, err := h.templates.GetByID(r.Context(), id)
		if err != nil {
			renderError(w, r, h.log, err)
			return
		}
		merged := tmplvar.ExtractAll(
			orFallback(req.Subject, current.Subject),
			orFallback(req.Text, current.BodyText),
			orFallback(req.HTML, current.BodyHTML),
		)
		params.Variables = &merged
	}

	if err := h.templates.Update(r.Context(), id, params); err != nil {
		renderError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "Invalid template id")
		return
	}

	if err := h.templates.Delete(r.Context(), id); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orFallback(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
