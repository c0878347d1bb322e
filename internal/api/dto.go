// Package api defines the JSON request/response shapes of the HTTP surface.
package api

import (
	"time"

	"github.com/codexhub/img-uploader/internal/domain"
)

type ImageResponse struct {
	Id           string    `json:"id"`
	Owner        string    `json:"owner"`
	PublicURL    string    `json:"publicUrl"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	Width        *int      `json:"width,omitempty"`
	Height       *int      `json:"height,omitempty"`
	IsPublic     bool      `json:"isPublic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ImageResponseFromDomain(img domain.Image) ImageResponse {
	return ImageResponse{
		Id:           img.Id,
		Owner:        img.OwnerId,
		PublicURL:    img.PublicURL,
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		Size:         img.SizeBytes,
		MimeType:     img.MimeType,
		Width:        img.ImageWidth,
		Height:       img.ImageHeight,
		IsPublic:     img.IsPublic,
		CreatedAt:    img.CreatedAt,
		UpdatedAt:    img.UpdatedAt,
	}
}

type UploadedImage struct {
	Id  string `json:"id"`
	URL string `json:"url"`
}

type UploadImageResponse struct {
	Message string        `json:"message"`
	Image   UploadedImage `json:"image"`
}

type ImageListResponse struct {
	Images []ImageResponse `json:"images"`
}
