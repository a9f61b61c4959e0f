package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/mailway/internal/store"
)

type attachmentReader interface {
	GetByID(ctx context.Context, id int64) (*store.Attachment, error)
}

// AttachmentHandler serves stored attachment downloads.
type AttachmentHandler struct {
	attachments attachmentReader
	log         *slog.Logger
}

// NewAttachmentHandler wires an AttachmentHandler.
func NewAttachmentHandler(attachments attachmentReader, log *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, log: log}
}

// Download handles GET /api/attachments/{id}, streaming the stored
// payload with its original filename and MIME type.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "Invalid attachment id")
		return
	}

	attachment, err := h.attachments.GetByID(r.Context(), id)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.OriginalFilename))
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(attachment.Content)
}
