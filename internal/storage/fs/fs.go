package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/codexhub/img-uploader/internal/service"
	"github.com/codexhub/img-uploader/internal/utils"
)

// PublicPathPrefix is the static-serving path segment under which saved
// files are reachable.
const PublicPathPrefix = "/uploads/"

var extensionPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

type Storage struct {
	rootPath string
}

// Ensure Storage struct implements the interface at compile time.
var _ service.BlobStorage = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "uploads/../"
	p := filepath.Clean(rootPath)

	// Ensure the root directory exists. 0755 is masked by the system's umask.
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Root returns the directory files are stored under, for static serving.
func (s *Storage) Root() string {
	return s.rootPath
}

// SaveFile writes the upload under a generated collision-resistant name and
// returns that name. Only the extension of the client-supplied name is
// trusted; everything else is ignored so path-like input cannot influence
// where the file lands.
func (s *Storage) SaveFile(fileData io.Reader, originalName string) (string, error) {
	filename := generateFilename(originalName)
	fullPath := filepath.Join(s.rootPath, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		// If the copy fails, clean up the partial file. Best effort.
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return filename, nil
}

// DeleteFile removes a stored file if present and reports whether a file
// existed and was removed. A missing file is not an error.
func (s *Storage) DeleteFile(filename string) (bool, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Base(filename))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return false, nil
	}

	if err := os.Remove(fullPath); err != nil {
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	return true, nil
}

// PublicURL composes the absolute address a saved file is served from.
// Pure string composition, no I/O.
func (s *Storage) PublicURL(scheme, host, filename string) string {
	return scheme + "://" + host + PublicPathPrefix + filename
}

// generateFilename builds "<unix-millis>-<9 random digits><ext>".
// The time prefix keeps names roughly sortable, the random suffix makes
// concurrent uploads collision-resistant.
func generateFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !extensionPattern.MatchString(ext) {
		ext = ""
	}
	suffix := utils.GenerateRandomString(9, "0123456789")
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
