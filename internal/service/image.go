package service

import (
	"io"

	"github.com/codexhub/img-uploader/internal/domain"
	"github.com/codexhub/img-uploader/internal/logger"
	"github.com/codexhub/img-uploader/internal/service/utils"
)

type ImageService interface {
	Upload(owner domain.User, upload *domain.PendingUpload, scheme, host string) (*domain.Image, error)
	Mine(ownerId domain.UserId) ([]domain.Image, error)
	Delete(ownerId domain.UserId, id domain.ImageId) error
}

// ImageStorage is the metadata store for image records.
type ImageStorage interface {
	CreateImage(image *domain.Image) (*domain.Image, error)
	GetOwnedImage(id domain.ImageId, ownerId domain.UserId) (*domain.Image, error)
	GetImagesByOwner(ownerId domain.UserId) ([]domain.Image, error)
	DeleteImage(id domain.ImageId) error
}

// BlobStorage is the byte store for uploaded content.
type BlobStorage interface {
	SaveFile(fileData io.Reader, originalName string) (string, error)
	DeleteFile(filename string) (bool, error)
	PublicURL(scheme, host, filename string) string
}

type Image struct {
	storage ImageStorage
	blobs   BlobStorage
}

func NewImage(storage ImageStorage, blobs BlobStorage) ImageService {
	return &Image{storage, blobs}
}

// Upload writes the binary content first, then the metadata record.
// There is no atomicity between the two: a metadata-write failure leaves
// the stored file behind with no compensating delete (accepted risk).
func (s *Image) Upload(owner domain.User, upload *domain.PendingUpload, scheme, host string) (*domain.Image, error) {
	filename, err := s.blobs.SaveFile(upload.Data, upload.OriginalName)
	if err != nil {
		return nil, err
	}

	image := &domain.Image{
		OwnerId:      owner.Id,
		PublicURL:    s.blobs.PublicURL(scheme, host, filename),
		Filename:     filename,
		OriginalName: utils.SanitizeFilename(upload.OriginalName),
		SizeBytes:    upload.SizeBytes,
		MimeType:     upload.MimeType,
		ImageWidth:   upload.ImageWidth,
		ImageHeight:  upload.ImageHeight,
		IsPublic:     true,
	}

	created, err := s.storage.CreateImage(image)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Image) Mine(ownerId domain.UserId) ([]domain.Image, error) {
	return s.storage.GetImagesByOwner(ownerId)
}

// Delete removes the blob first, then the record. A blob that is already
// gone, or fails to be removed, does not abort the record deletion.
func (s *Image) Delete(ownerId domain.UserId, id domain.ImageId) error {
	image, err := s.storage.GetOwnedImage(id, ownerId)
	if err != nil {
		return err
	}

	if _, err := s.blobs.DeleteFile(image.Filename); err != nil {
		logger.Log.Error("removing blob failed, deleting record anyway", "filename", image.Filename, "error", err)
	}

	return s.storage.DeleteImage(id)
}
