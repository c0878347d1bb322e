package handler

import (
	"context"

	"github.com/codexhub/img-uploader/internal/config"
	"github.com/codexhub/img-uploader/internal/service"
)

// Pinger reports readiness of the metadata store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	image  service.ImageService
	cfg    *config.Config
	health Pinger
}

func New(image service.ImageService, cfg *config.Config, health Pinger) *Handler {
	return &Handler{image: image, cfg: cfg, health: health}
}
