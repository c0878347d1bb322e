package domain

import (
	"io"
	"time"
)

type ImageId = string

// Image is the metadata record for one uploaded blob.
// Records are immutable after creation; there is no edit endpoint.
type Image struct {
	Id           ImageId
	OwnerId      UserId
	PublicURL    string
	Filename     string
	OriginalName string
	SizeBytes    int64
	MimeType     string
	ImageWidth   *int
	ImageHeight  *int
	IsPublic     bool // stored but not enforced by any access check
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingUpload is a validated upload that has not been written to storage yet.
type PendingUpload struct {
	OriginalName string
	SizeBytes    int64
	MimeType     string
	ImageWidth   *int
	ImageHeight  *int
	Data         io.Reader
}
