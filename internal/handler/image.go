package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codexhub/img-uploader/internal/api"
	"github.com/codexhub/img-uploader/internal/middleware"
	"github.com/codexhub/img-uploader/internal/utils"
	"github.com/codexhub/img-uploader/internal/validation"
)

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxFileSizeBytes, 1<<20)
	if err := validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		utils.WriteMessage(w, validationStatusCode(err), err.Error())
		return
	}

	fileHeader, err := validation.FormFile(r.MultipartForm, "file")
	if err != nil {
		utils.WriteMessage(w, validationStatusCode(err), "No file provided")
		return
	}

	pending, err := validation.ValidateUpload(fileHeader, h.cfg.Public.AllowedMimeTypes, h.cfg.Public.MaxFileSizeBytes)
	if err != nil {
		utils.WriteMessage(w, validationStatusCode(err), err.Error())
		return
	}
	defer func() {
		if closer, ok := pending.Data.(io.Closer); ok {
			closer.Close()
		}
	}()

	image, err := h.image.Upload(*user, pending, requestScheme(r), r.Host)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, api.UploadImageResponse{
		Message: "Image uploaded",
		Image:   api.UploadedImage{Id: image.Id, URL: image.PublicURL},
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	images, err := h.image.Mine(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.ImageListResponse{Images: make([]api.ImageResponse, len(images))}
	for i, img := range images {
		response.Images[i] = api.ImageResponseFromDomain(img)
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.image.Delete(user.Id, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Image deleted")
}

// validationStatusCode maps upload validation failures to client error codes.
func validationStatusCode(err error) int {
	switch {
	case errors.Is(err, validation.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, validation.ErrInvalidMimeType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

// requestScheme resolves the scheme the client used, honoring a reverse
// proxy's X-Forwarded-Proto header.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
