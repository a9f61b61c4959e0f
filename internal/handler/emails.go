package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailway/internal/dispatch"
	"github.com/dmitrymomot/mailway/internal/store"
)

// Query parameter validation messages, surfaced verbatim in 400 bodies.
var (
	errInvalidPage     = errors.New("Invalid page parameter: must be a positive integer")
	errInvalidPerPage  = errors.New("Invalid perPage parameter: must be between 1 and 100")
	errInvalidStatus   = errors.New("Invalid status parameter: must be sent, failed or pending")
	errInvalidDateFrom = errors.New("Invalid dateFrom parameter: expected an RFC 3339 timestamp or YYYY-MM-DD")
	errInvalidDateTo   = errors.New("Invalid dateTo parameter: expected an RFC 3339 timestamp or YYYY-MM-DD")
	errInvalidDate     = errors.New("invalid date")
)

type emailDispatcher interface {
	Dispatch(ctx context.Context, req *dispatch.SendRequest) (*dispatch.Outcome, error)
}

type emailReader interface {
	List(ctx context.Context, f store.EmailFilter) ([]store.EmailRecord, int, error)
	GetByID(ctx context.Context, id int64) (*store.EmailRecord, error)
}

type attachmentLister interface {
	ListByEmail(ctx context.Context, emailID int64) ([]store.Attachment, error)
}

// EmailHandler serves email dispatch and history endpoints.
type EmailHandler struct {
	dispatcher  emailDispatcher
	emails      emailReader
	attachments attachmentLister
	log         *slog.Logger
}

// NewEmailHandler wires an EmailHandler.
func NewEmailHandler(dispatcher emailDispatcher, emails emailReader, attachments attachmentLister, log *slog.Logger) *EmailHandler {
	return &EmailHandler{dispatcher: dispatcher, emails: emails, attachments: attachments, log: log}
}

// Send handles POST /api/emails.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	req, err := dispatch.ParseSendRequest(r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	out, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      out.RecordID,
		"emailId": out.MessageID,
	})
}

// List handles GET /api/emails with optional filters and pagination.
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEmailFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	records, total, err := h.emails.List(r.Context(), *filter)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage
	respondJSON(w, http.StatusOK, map[string]any{
		"emails":     records,
		"total":      total,
		"page":       filter.Page,
		"perPage":    filter.PerPage,
		"totalPages": totalPages,
	})
}

// Get handles GET /api/emails/{id}, returning the record with its
// attachment metadata.
func (h *EmailHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "Invalid email id")
		return
	}

	record, err := h.emails.GetByID(r.Context(), id)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	attachments, err := h.attachments.ListByEmail(r.Context(), id)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		*store.EmailRecord
		Attachments []store.Attachment `json:"attachments"`
	}{record, attachments})
}

// parseEmailFilter validates pagination and filter query parameters.
func parseEmailFilter(r *http.Request) (*store.EmailFilter, error) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, errInvalidPage
		}
		page = n
	}

	perPage := store.DefaultPerPage
	if raw := q.Get("perPage"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > store.MaxPerPage {
			return nil, errInvalidPerPage
		}
		perPage = n
	}

	filter := &store.EmailFilter{
		Recipient: q.Get("recipient"),
		Subject:   q.Get("subject"),
		Sender:    q.Get("sender"),
		Page:      page,
		PerPage:   perPage,
	}

	if raw := q.Get("status"); raw != "" {
		switch store.EmailStatus(raw) {
		case store.StatusSent, store.StatusFailed, store.StatusPending:
			filter.Status = store.EmailStatus(raw)
		default:
			return nil, errInvalidStatus
		}
	}

	var err error
	if filter.DateFrom, err = parseDate(q.Get("dateFrom")); err != nil {
		return nil, errInvalidDateFrom
	}
	if filter.DateTo, err = parseDate(q.Get("dateTo")); err != nil {
		return nil, errInvalidDateTo
	}

	return filter, nil
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidDate
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
