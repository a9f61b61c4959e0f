package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailway/internal/dispatch"
	"github.com/dmitrymomot/mailway/internal/handler"
	"github.com/dmitrymomot/mailway/internal/store"
)

func newAttachmentFixture(attachments ...store.Attachment) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewRouter(
		handler.NewEmailHandler(&fakeDispatcher{outcome: &dispatch.Outcome{}}, &fakeEmailReader{}, &fakeAttachmentStore{}, log),
		handler.NewTemplateHandler(&fakeTemplateStore{templates: map[int64]*store.Template{}}, log),
		handler.NewAttachmentHandler(&fakeAttachmentStore{attachments: attachments}, log),
		http.NotFoundHandler(),
	)
}

func TestDownloadAttachment(t *testing.T) {
	t.Parallel()

	router := newAttachmentFixture(store.Attachment{
		ID:               7,
		EmailID:          1,
		Filename:         "q3_report.pdf",
		OriginalFilename: "q3 report.pdf",
		MimeType:         "application/pdf",
		Size:             8,
		Content:          []byte("%PDF-1.7"),
	})

	w := get(t, router, "/api/attachments/7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="q3 report.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", w.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}

func TestDownloadAttachment_Errors(t *testing.T) {
	t.Parallel()

	router := newAttachmentFixture()
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/attachments/99").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/attachments/abc").Code)
}
