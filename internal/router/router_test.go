package router

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexhub/img-uploader/internal/api"
	"github.com/codexhub/img-uploader/internal/config"
	"github.com/codexhub/img-uploader/internal/domain"
	internal_errors "github.com/codexhub/img-uploader/internal/errors"
	"github.com/codexhub/img-uploader/internal/handler"
	"github.com/codexhub/img-uploader/internal/jwt"
	"github.com/codexhub/img-uploader/internal/middleware"
	"github.com/codexhub/img-uploader/internal/service"
	"github.com/codexhub/img-uploader/internal/setup"
	"github.com/codexhub/img-uploader/internal/storage/fs"

	"github.com/google/uuid"
)

const testSecret = "router-test-secret"

// memoryImageStorage is an in-memory stand-in for the Postgres store so the
// full HTTP surface can be exercised without a database.
type memoryImageStorage struct {
	mu     sync.Mutex
	images map[domain.ImageId]domain.Image
}

func newMemoryImageStorage() *memoryImageStorage {
	return &memoryImageStorage{images: make(map[domain.ImageId]domain.Image)}
}

func (m *memoryImageStorage) CreateImage(img *domain.Image) (*domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *img
	created.Id = uuid.NewString()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	m.images[created.Id] = created
	return &created, nil
}

func (m *memoryImageStorage) GetOwnedImage(id domain.ImageId, ownerId domain.UserId) (*domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok || img.OwnerId != ownerId {
		return nil, internal_errors.NotFound("Image not found")
	}
	return &img, nil
}

func (m *memoryImageStorage) GetImagesByOwner(ownerId domain.UserId) ([]domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var images []domain.Image
	for _, img := range m.images {
		if img.OwnerId == ownerId {
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].CreatedAt.After(images[j].CreatedAt) })
	return images, nil
}

func (m *memoryImageStorage) DeleteImage(id domain.ImageId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[id]; !ok {
		return internal_errors.NotFound("Image not found")
	}
	delete(m.images, id)
	return nil
}

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

func setupTestServer(t *testing.T) (*httptest.Server, jwt.JwtService) {
	t.Helper()

	cfg := &config.Config{
		Public: config.Public{
			MaxFileSizeBytes: 5 << 20,
			AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
			AllowedOrigins:   []string{"http://localhost:5173"},
		},
	}

	blobs, err := fs.New(t.TempDir())
	require.NoError(t, err)

	jwtService := jwt.New(testSecret, time.Hour)
	imageService := service.NewImage(newMemoryImageStorage(), blobs)
	h := handler.New(imageService, cfg, stubPinger{})

	// router.New only needs the fields it reads; the pg storage stays nil
	r := New(&setup.Dependencies{
		Config:         cfg,
		Blobs:          blobs,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, jwtService
}

func bearerFor(t *testing.T, jwtService jwt.JwtService, user domain.User) string {
	t.Helper()
	token, err := jwtService.NewToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func uploadPNG(t *testing.T, server *httptest.Server, bearer string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/images/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", bearer)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	// ~10 KB once encoded
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))
	return buf.Bytes()
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestUploadListDeleteRoundTrip(t *testing.T) {
	server, jwtService := setupTestServer(t)
	bearer := bearerFor(t, jwtService, domain.User{Id: "u1", Email: "u1@test.com"})
	content := pngBytes(t)

	// Upload
	resp := uploadPNG(t, server, bearer, content)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded api.UploadImageResponse
	decodeJSON(t, resp, &uploaded)
	require.NotEmpty(t, uploaded.Image.Id)
	assert.Regexp(t, `^http://.+/uploads/\d+-\d{9}\.png$`, uploaded.Image.URL)

	// The public URL serves the original bytes
	resp, err := server.Client().Get(uploaded.Image.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, content, fetched)

	// Listing contains exactly the new record
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/images/mine", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearer)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing api.ImageListResponse
	decodeJSON(t, resp, &listing)
	require.Len(t, listing.Images, 1)
	assert.Equal(t, uploaded.Image.Id, listing.Images[0].Id)
	assert.Equal(t, uploaded.Image.URL, listing.Images[0].PublicURL)
	assert.Equal(t, int64(len(content)), listing.Images[0].Size)

	// Delete
	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/images/"+uploaded.Image.Id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearer)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Blob is gone
	resp, err = server.Client().Get(uploaded.Image.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Listing is empty again
	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/images/mine", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearer)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	decodeJSON(t, resp, &listing)
	assert.Empty(t, listing.Images)

	// Second delete is not found
	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/images/"+uploaded.Image.Id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearer)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOwnershipIsolation(t *testing.T) {
	server, jwtService := setupTestServer(t)
	bearerA := bearerFor(t, jwtService, domain.User{Id: "userA"})
	bearerB := bearerFor(t, jwtService, domain.User{Id: "userB"})

	resp := uploadPNG(t, server, bearerA, pngBytes(t))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploaded api.UploadImageResponse
	decodeJSON(t, resp, &uploaded)

	// B cannot list A's image
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/images/mine", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerB)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	var listing api.ImageListResponse
	decodeJSON(t, resp, &listing)
	assert.Empty(t, listing.Images)

	// B's delete of A's image is 404, not 403
	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/images/"+uploaded.Image.Id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerB)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// A can still delete it
	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/images/"+uploaded.Image.Id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerA)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/images/upload"},
		{http.MethodGet, "/api/images/mine"},
		{http.MethodDelete, "/api/images/some-id"},
	} {
		req, err := http.NewRequest(route.method, server.URL+route.path, nil)
		require.NoError(t, err)
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
		resp.Body.Close()
	}
}

func TestUploadsDirectoryIsNotListable(t *testing.T) {
	server, jwtService := setupTestServer(t)
	bearer := bearerFor(t, jwtService, domain.User{Id: "u1", Email: "u1@test.com"})

	resp := uploadPNG(t, server, bearer, pngBytes(t))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploaded api.UploadImageResponse
	decodeJSON(t, resp, &uploaded)

	// A directory request must not enumerate stored filenames
	resp, err := server.Client().Get(server.URL + "/uploads/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, string(body), ".png")

	// The blob itself stays reachable by its exact name
	resp, err = server.Client().Get(uploaded.Image.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLiveness(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := server.Client().Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}
