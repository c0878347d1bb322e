package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/codexhub/img-uploader/internal/domain"
	internal_errors "github.com/codexhub/img-uploader/internal/errors"
)

// Saves image record to db
func (s *Storage) CreateImage(image *domain.Image) (*domain.Image, error) {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway round to microsecond

	created := *image
	created.Id = uuid.NewString()
	created.CreatedAt = createdTs
	created.UpdatedAt = createdTs

	_, err := s.db.Exec(`
	INSERT INTO images(id, owner_id, public_url, filename, original_name, size_bytes, mime_type, image_width, image_height, is_public, created, updated)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		created.Id, created.OwnerId, created.PublicURL, created.Filename, created.OriginalName,
		created.SizeBytes, created.MimeType, created.ImageWidth, created.ImageHeight,
		created.IsPublic, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *Storage) GetImage(id domain.ImageId) (*domain.Image, error) {
	return s.getImage(`WHERE id = $1`, id)
}

// GetOwnedImage fetches a record only if it belongs to ownerId.
// A record owned by somebody else is indistinguishable from a missing one.
func (s *Storage) GetOwnedImage(id domain.ImageId, ownerId domain.UserId) (*domain.Image, error) {
	return s.getImage(`WHERE id = $1 AND owner_id = $2`, id, ownerId)
}

func (s *Storage) getImage(where string, args ...interface{}) (*domain.Image, error) {
	var img domain.Image
	err := s.db.QueryRow(`
	SELECT
		id,
		owner_id,
		public_url,
		filename,
		original_name,
		size_bytes,
		mime_type,
		image_width,
		image_height,
		is_public,
		created,
		updated
	FROM images `+where, args...).Scan(
		&img.Id, &img.OwnerId, &img.PublicURL, &img.Filename, &img.OriginalName,
		&img.SizeBytes, &img.MimeType, &img.ImageWidth, &img.ImageHeight,
		&img.IsPublic, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Image not found")
		}
		return nil, err
	}
	return &img, nil
}

// GetImagesByOwner returns the owner's records, newest first.
func (s *Storage) GetImagesByOwner(ownerId domain.UserId) ([]domain.Image, error) {
	rows, err := s.db.Query(`
	SELECT
		id,
		owner_id,
		public_url,
		filename,
		original_name,
		size_bytes,
		mime_type,
		image_width,
		image_height,
		is_public,
		created,
		updated
	FROM images
	WHERE owner_id = $1
	ORDER BY created DESC`, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(
			&img.Id, &img.OwnerId, &img.PublicURL, &img.Filename, &img.OriginalName,
			&img.SizeBytes, &img.MimeType, &img.ImageWidth, &img.ImageHeight,
			&img.IsPublic, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}

// DeleteImage removes the record. With two concurrent deletes of the same
// id, RowsAffected lets exactly one caller win; the loser gets not found.
func (s *Storage) DeleteImage(id domain.ImageId) error {
	result, err := s.db.Exec(`DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.NotFound("Image not found")
	}
	return nil
}
