package dispatch_test

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailway/internal/dispatch"
)

func TestParseSendRequest_JSON(t *testing.T) {
	t.Parallel()

	content := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))
	body := `{
		"from": "noreply@acme.com",
		"to": "user@example.com",
		"subject": "Hello",
		"text": "Hi",
		"html": "<p>Hi</p>",
		"templateId": 3,
		"variables": {"name": "Ada"},
		"attachments": [{"filename": "doc.pdf", "content": "` + content + `", "contentType": "application/pdf"}]
	}`

	r := httptest.NewRequest("POST", "/api/emails", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	req, err := dispatch.ParseSendRequest(r)
	require.NoError(t, err)

	assert.Equal(t, "noreply@acme.com", req.From)
	assert.Equal(t, "user@example.com", req.To)
	assert.Equal(t, "<p>Hi</p>", req.HTML)
	require.NotNil(t, req.TemplateID)
	assert.Equal(t, int64(3), *req.TemplateID)
	assert.Equal(t, map[string]string{"name": "Ada"}, req.Variables)
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, []byte("%PDF-1.7"), req.Attachments[0].Content)
	assert.Equal(t, "application/pdf", req.Attachments[0].ContentType)
}

func TestParseSendRequest_JSONMalformed(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/api/emails", strings.NewReader(`{"from": `))
	r.Header.Set("Content-Type", "application/json")

	_, err := dispatch.ParseSendRequest(r)
	require.ErrorIs(t, err, dispatch.ErrMalformedRequest)
}

func TestParseSendRequest_JSONInvalidBase64(t *testing.T) {
	t.Parallel()

	body := `{"from": "a@b.com", "attachments": [{"filename": "x.pdf", "content": "!!not base64!!"}]}`
	r := httptest.NewRequest("POST", "/api/emails", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	_, err := dispatch.ParseSendRequest(r)
	require.ErrorIs(t, err, dispatch.ErrMalformedRequest)
}

func TestParseSendRequest_Multipart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("from", "noreply@acme.com"))
	require.NoError(t, w.WriteField("to", "user@example.com"))
	require.NoError(t, w.WriteField("subject", "Hello"))
	require.NoError(t, w.WriteField("templateId", "5"))
	require.NoError(t, w.WriteField("variables", `{"name":"Ada"}`))

	part, err := w.CreateFormFile("attachments", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("some notes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := httptest.NewRequest("POST", "/api/emails", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	req, err := dispatch.ParseSendRequest(r)
	require.NoError(t, err)

	assert.Equal(t, "noreply@acme.com", req.From)
	require.NotNil(t, req.TemplateID)
	assert.Equal(t, int64(5), *req.TemplateID)
	assert.Equal(t, map[string]string{"name": "Ada"}, req.Variables)
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, "notes.txt", req.Attachments[0].Filename)
	assert.Equal(t, []byte("some notes"), req.Attachments[0].Content)
	assert.Equal(t, "application/octet-stream", req.Attachments[0].ContentType)
}

func TestParseSendRequest_MultipartBadTemplateID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("templateId", "abc"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest("POST", "/api/emails", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	_, err := dispatch.ParseSendRequest(r)
	require.ErrorIs(t, err, dispatch.ErrMalformedRequest)
}
