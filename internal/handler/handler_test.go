package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/codexhub/img-uploader/internal/config"
	"github.com/codexhub/img-uploader/internal/domain"
	"github.com/codexhub/img-uploader/internal/middleware"
	"github.com/codexhub/img-uploader/internal/service"
)

// MockImageService implements the service.ImageService interface
type MockImageService struct {
	MockUpload func(owner domain.User, upload *domain.PendingUpload, scheme, host string) (*domain.Image, error)
	MockMine   func(ownerId domain.UserId) ([]domain.Image, error)
	MockDelete func(ownerId domain.UserId, id domain.ImageId) error
}

func (m *MockImageService) Upload(owner domain.User, upload *domain.PendingUpload, scheme, host string) (*domain.Image, error) {
	if m.MockUpload != nil {
		return m.MockUpload(owner, upload, scheme, host)
	}
	return &domain.Image{}, nil
}

func (m *MockImageService) Mine(ownerId domain.UserId) ([]domain.Image, error) {
	if m.MockMine != nil {
		return m.MockMine(ownerId)
	}
	return nil, nil
}

func (m *MockImageService) Delete(ownerId domain.UserId, id domain.ImageId) error {
	if m.MockDelete != nil {
		return m.MockDelete(ownerId, id)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			MaxFileSizeBytes: 5 << 20,
			AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		},
	}
}

// setupImageTestHandler wires the handler behind the routes used in tests.
func setupImageTestHandler(imageService service.ImageService) chi.Router {
	h := New(imageService, testConfig(), nil)
	r := chi.NewRouter()
	r.Post("/api/images/upload", h.UploadImage)
	r.Get("/api/images/mine", h.ListMine)
	r.Delete("/api/images/{id}", h.DeleteImage)
	return r
}

// withUser injects an authenticated user the way the auth middleware would.
func withUser(req *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserClaimsKey, user)
	return req.WithContext(ctx)
}

// multipartBody builds a multipart body with a single part under fieldName.
func multipartBody(t *testing.T, fieldName, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func doRequest(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
