package dispatch

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// Multipart bodies above this threshold spill to temporary files.
const multipartMemoryLimit = 32 << 20

// Attachment is one decoded file carried by a send request.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SendRequest is a normalized send request, decoded from either a JSON
// or a multipart body. When TemplateID is set the template's subject
// and bodies replace the inline ones after variable substitution.
type SendRequest struct {
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	TemplateID  *int64
	Variables   map[string]string
	Attachments []Attachment
}

// ParseSendRequest decodes a send request from the HTTP request body.
// JSON bodies carry attachments as base64 content; multipart bodies
// carry them as file parts named "attachments". Any decode failure is
// reported as ErrMalformedRequest.
func ParseSendRequest(r *http.Request) (*SendRequest, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return parseMultipart(r)
	}
	return parseJSON(r.Body)
}

type jsonAttachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"` // base64 on the wire
	ContentType string `json:"contentType"`
}

type jsonSendRequest struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Text        string            `json:"text"`
	HTML        string            `json:"html"`
	TemplateID  *int64            `json:"templateId"`
	Variables   map[string]string `json:"variables"`
	Attachments []jsonAttachment  `json:"attachments"`
}

func parseJSON(body io.Reader) (*SendRequest, error) {
	var payload jsonSendRequest
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, errors.Join(ErrMalformedRequest, err)
	}

	req := &SendRequest{
		From:       payload.From,
		To:         payload.To,
		Subject:    payload.Subject,
		Text:       payload.Text,
		HTML:       payload.HTML,
		TemplateID: payload.TemplateID,
		Variables:  payload.Variables,
	}
	for _, a := range payload.Attachments {
		req.Attachments = append(req.Attachments, Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}
	return req, nil
}

func parseMultipart(r *http.Request) (*SendRequest, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, errors.Join(ErrMalformedRequest, err)
	}

	req := &SendRequest{
		From:    r.FormValue("from"),
		To:      r.FormValue("to"),
		Subject: r.FormValue("subject"),
		Text:    r.FormValue("text"),
		HTML:    r.FormValue("html"),
	}

	if raw := r.FormValue("templateId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Join(ErrMalformedRequest, err)
		}
		req.TemplateID = &id
	}
	if raw := r.FormValue("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return nil, errors.Join(ErrMalformedRequest, err)
		}
	}

	for _, header := range r.MultipartForm.File["attachments"] {
		file, err := header.Open()
		if err != nil {
			return nil, errors.Join(ErrMalformedRequest, err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, errors.Join(ErrMalformedRequest, err)
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.Attachments = append(req.Attachments, Attachment{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     content,
		})
	}

	return req, nil
}
