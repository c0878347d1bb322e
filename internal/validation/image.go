package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/codexhub/img-uploader/internal/domain"
)

// ValidateUpload checks a single uploaded file against the MIME allow-list and
// the size ceiling and returns a PendingUpload ready for storage.
// The caller owns closing the returned Data reader.
func ValidateUpload(fileHeader *multipart.FileHeader, allowedMimes []string, maxSizeBytes int64) (*domain.PendingUpload, error) {
	if fileHeader.Size > maxSizeBytes {
		return nil, fmt.Errorf("%w: file %s exceeds %.0f MB limit", ErrPayloadTooLarge, fileHeader.Filename, FormatSizeMB(maxSizeBytes))
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		return nil, err
	}

	if !BuildAllowedMimeMap(allowedMimes)[mimeType] {
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	width, height := ExtractImageDimensions(file)

	return &domain.PendingUpload{
		OriginalName: fileHeader.Filename,
		SizeBytes:    fileHeader.Size,
		MimeType:     mimeType,
		ImageWidth:   width,
		ImageHeight:  height,
		Data:         file,
	}, nil
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowed := make(map[string]bool)
	for _, m := range mimes {
		allowed[m] = true
	}
	return allowed
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		if detectedType := mime.TypeByExtension(ext); detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("%w: could not detect MIME type for file: %s", ErrInvalidMimeType, fileHeader.Filename)
	}

	// Strip parameters like "; charset="
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return mimeType, nil
}

// ExtractImageDimensions reads the image header for width/height.
// Returns nils when the content cannot be decoded; that is not fatal.
func ExtractImageDimensions(file multipart.File) (*int, *int) {
	img, _, err := image.DecodeConfig(file)
	file.Seek(0, 0) // Reset file pointer after reading the header
	if err != nil {
		return nil, nil
	}

	width, height := img.Width, img.Height
	return &width, &height
}
