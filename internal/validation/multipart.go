package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

// ValidateAndParseMultipart validates request size and parses the multipart form.
// MaxBytesReader stops reading when the limit is exceeded, so an oversized body
// never gets buffered in full regardless of what the client declares.
// An oversized body maps to ErrPayloadTooLarge; any other parse failure
// (wrong Content-Type, truncated or garbage body) maps to ErrMalformedForm.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	if r.ContentLength > maxSize {
		return fmt.Errorf("%w: request body exceeds %.0f MB", ErrPayloadTooLarge, FormatSizeMB(maxSize))
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: request body exceeds %.0f MB", ErrPayloadTooLarge, FormatSizeMB(maxSize))
		}
		return fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}

	return nil
}

// FormFile returns the single uploaded file under fieldName,
// or ErrNoFile when the field is absent or empty.
func FormFile(form *multipart.Form, fieldName string) (*multipart.FileHeader, error) {
	files := form.File[fieldName]
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: missing form field %q", ErrNoFile, fieldName)
	}
	return files[0], nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// The buffer (typically 1 MiB) covers form fields and multipart framing.
func CalculateMaxRequestSize(maxFileSize int64, bufferSize int64) int64 {
	return maxFileSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
