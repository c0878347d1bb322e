package setup

import (
	"github.com/codexhub/img-uploader/internal/config"
	"github.com/codexhub/img-uploader/internal/handler"
	"github.com/codexhub/img-uploader/internal/jwt"
	"github.com/codexhub/img-uploader/internal/middleware"
	"github.com/codexhub/img-uploader/internal/service"
	"github.com/codexhub/img-uploader/internal/storage/fs"
	"github.com/codexhub/img-uploader/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Blobs          *fs.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	image := service.NewImage(storage, blobs)

	h := handler.New(image, cfg, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Blobs:          blobs,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
	}, nil
}
