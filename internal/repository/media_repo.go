package repository

import (
	"database/sql"
	"fmt"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// MediaRepository handles database operations for media assets
type MediaRepository struct {
	db *database.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *database.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// CreateMedia inserts a new media asset. The caller assigns the UUID.
func (r *MediaRepository) CreateMedia(media *models.MediaAsset) error {
	query := `
		INSERT INTO media (id, url, mime_type, size_bytes, alt_text)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, media.ID, media.URL, media.MimeType, media.SizeBytes, media.AltText)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

// GetMediaByID retrieves a media asset by UUID
func (r *MediaRepository) GetMediaByID(id string) (*models.MediaAsset, error) {
	query := `
		SELECT id, url, mime_type, size_bytes, COALESCE(alt_text, ''), created_at
		FROM media
		WHERE id = ?
	`
	media := &models.MediaAsset{}
	err := r.db.QueryRow(query, id).Scan(
		&media.ID,
		&media.URL,
		&media.MimeType,
		&media.SizeBytes,
		&media.AltText,
		&media.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return media, nil
}

// GetAllMedia retrieves all media assets, newest first
func (r *MediaRepository) GetAllMedia() ([]models.MediaAsset, error) {
	query := `
		SELECT id, url, mime_type, size_bytes, COALESCE(alt_text, ''), created_at
		FROM media
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var assets []models.MediaAsset
	for rows.Next() {
		var media models.MediaAsset
		if err := rows.Scan(
			&media.ID,
			&media.URL,
			&media.MimeType,
			&media.SizeBytes,
			&media.AltText,
			&media.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		assets = append(assets, media)
	}
	return assets, rows.Err()
}

// DeleteMedia deletes a media asset
func (r *MediaRepository) DeleteMedia(id string) error {
	if _, err := r.db.Exec("DELETE FROM media WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}
