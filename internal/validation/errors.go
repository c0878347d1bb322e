package validation

import "errors"

// ErrPayloadTooLarge is returned when an upload exceeds the size ceiling
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrMalformedForm is returned when the request body is not a parseable multipart form
var ErrMalformedForm = errors.New("malformed multipart form")

// ErrNoFile is returned when the multipart form carries no file field
var ErrNoFile = errors.New("no file provided")
