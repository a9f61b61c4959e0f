package fileval

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxSize is the attachment size ceiling in bytes (10 MiB).
const MaxSize = 10 << 20

// maxFilenameLen bounds sanitized storage filenames.
const maxFilenameLen = 255

// Error codes for ValidationError.
const (
	ErrCodeFileTooLarge     = "file_too_large"
	ErrCodeBlockedExtension = "blocked_extension"
	ErrCodeInvalidMIME      = "invalid_mime"
)

// ValidationError represents an attachment validation failure.
type ValidationError struct {
	Details map[string]any // Error-specific data
	Code    string         // Machine-readable code (e.g. "file_too_large")
	Message string         // Human-readable message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// allowedTypes is the declared-MIME allow-list: common images, PDF,
// Office document formats, plain text, CSV and zip archives.
var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"image/svg+xml":   {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain":                   {},
	"text/csv":                     {},
	"application/zip":              {},
	"application/x-zip-compressed": {},
}

// extensionMIME maps known file extensions to their expected MIME type.
var extensionMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".zip":  "application/zip",
}

// blockedExtensions rejects executable and installer formats outright.
// Checked against the filename, independent of the declared MIME type,
// because client-declared MIME types are not trustworthy.
var blockedExtensions = map[string]struct{}{
	".exe":  {},
	".bat":  {},
	".cmd":  {},
	".com":  {},
	".pif":  {},
	".scr":  {},
	".vbs":  {},
	".js":   {},
	".jar":  {},
	".app":  {},
	".deb":  {},
	".rpm":  {},
	".dmg":  {},
	".pkg":  {},
	".sh":   {},
	".bash": {},
	".csh":  {},
	".ksh":  {},
	".run":  {},
	".bin":  {},
	".msi":  {},
	".apk":  {},
	".ipa":  {},
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

var multiDots = regexp.MustCompile(`\.{2,}`)

// Validate checks an attachment's declared size, filename and MIME type.
// Returns *ValidationError on the first failed check, nil when the
// attachment is acceptable.
func Validate(filename string, size int64, mimeType string) error {
	if size > MaxSize {
		return &ValidationError{
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("attachment %q exceeds the %d MB size limit", filename, MaxSize/1024/1024),
			Details: map[string]any{
				"limit": int64(MaxSize),
				"got":   size,
			},
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, blocked := blockedExtensions[ext]; blocked {
		return &ValidationError{
			Code:    ErrCodeBlockedExtension,
			Message: fmt.Sprintf("file type not allowed: %q, executable files are blocked", filename),
			Details: map[string]any{
				"extension": ext,
			},
		}
	}

	if _, ok := allowedTypes[normalizeMIME(mimeType)]; !ok {
		return &ValidationError{
			Code:    ErrCodeInvalidMIME,
			Message: fmt.Sprintf("file type %q is not allowed, allowed types: images, PDFs, documents", mimeType),
			Details: map[string]any{
				"type": mimeType,
			},
		}
	}

	return nil
}

// ExpectedMIME returns the MIME type the filename's extension maps to,
// or empty string for unknown extensions. Used to detect (and log, not
// reject) declared-type mismatches.
func ExpectedMIME(filename string) string {
	return extensionMIME[strings.ToLower(filepath.Ext(filename))]
}

// MIMEMismatch reports whether the declared MIME type disagrees with the
// type expected from the filename's extension. Unknown extensions never
// mismatch.
func MIMEMismatch(filename, declared string) (expected string, mismatch bool) {
	expected = ExpectedMIME(filename)
	if expected == "" {
		return "", false
	}
	return expected, expected != normalizeMIME(declared)
}

// SanitizeFilename converts a client-supplied filename into a safe
// storage name: characters outside [A-Za-z0-9._-] become underscores,
// runs of dots collapse to one, and the result is truncated to 255
// characters. The original filename should be kept separately for
// display and download purposes.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = multiDots.ReplaceAllString(name, ".")
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}

// normalizeMIME extracts the base MIME type, removing parameters like
// charset, and lowercases it.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
