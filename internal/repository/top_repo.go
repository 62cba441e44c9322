package repository

import (
	"database/sql"
	"fmt"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// TopRepository handles database operations for curated top lists
type TopRepository struct {
	db *database.DB
}

// NewTopRepository creates a new top repository
func NewTopRepository(db *database.DB) *TopRepository {
	return &TopRepository{db: db}
}

const topColumns = `id, title, slug, description, COALESCE(main_media_id, ''), status, created_at, updated_at`

func scanTop(row interface{ Scan(...interface{}) error }) (*models.Top, error) {
	top := &models.Top{}
	err := row.Scan(
		&top.ID,
		&top.Title,
		&top.Slug,
		&top.Description,
		&top.MainMediaID,
		&top.Status,
		&top.CreatedAt,
		&top.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get top: %w", err)
	}
	return top, nil
}

// CreateTop inserts a new top list with its entries
func (r *TopRepository) CreateTop(top *models.Top) (*models.Top, error) {
	query := `
		INSERT INTO tops (title, slug, description, main_media_id, status)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		top.Title, top.Slug, top.Description, nullIfEmpty(top.MainMediaID), top.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create top: %w", err)
	}
	top.ID = id

	if err := r.ReplaceEntries(id, top.Entries); err != nil {
		return nil, err
	}
	return top, nil
}

// UpdateTop updates a top list and replaces its entries
func (r *TopRepository) UpdateTop(top *models.Top) error {
	query := `
		UPDATE tops
		SET title = ?, slug = ?, description = ?, main_media_id = ?, status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		top.Title, top.Slug, top.Description, nullIfEmpty(top.MainMediaID), top.Status, top.ID)
	if err != nil {
		return fmt.Errorf("failed to update top: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return r.ReplaceEntries(top.ID, top.Entries)
}

// DeleteTop deletes a top list; entries cascade
func (r *TopRepository) DeleteTop(id int64) error {
	if _, err := r.db.Exec("DELETE FROM tops WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete top: %w", err)
	}
	return nil
}

// GetTopByID retrieves a top list with its entries
func (r *TopRepository) GetTopByID(id int64) (*models.Top, error) {
	top, err := scanTop(r.db.QueryRow("SELECT "+topColumns+" FROM tops WHERE id = ?", id))
	if err != nil || top == nil {
		return top, err
	}
	if err := r.loadEntries(top); err != nil {
		return nil, err
	}
	return top, nil
}

// GetTopBySlug retrieves a top list with its entries by slug
func (r *TopRepository) GetTopBySlug(slug string) (*models.Top, error) {
	top, err := scanTop(r.db.QueryRow("SELECT "+topColumns+" FROM tops WHERE slug = ?", slug))
	if err != nil || top == nil {
		return top, err
	}
	if err := r.loadEntries(top); err != nil {
		return nil, err
	}
	return top, nil
}

// GetAllTops retrieves all top lists without entries, newest first
func (r *TopRepository) GetAllTops() ([]models.Top, error) {
	rows, err := r.db.Query("SELECT " + topColumns + " FROM tops ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tops: %w", err)
	}
	defer rows.Close()

	var tops []models.Top
	for rows.Next() {
		top, err := scanTop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top: %w", err)
		}
		tops = append(tops, *top)
	}
	return tops, rows.Err()
}

// ReplaceEntries replaces a top list's ranked entries
func (r *TopRepository) ReplaceEntries(topID int64, entries []models.TopEntry) error {
	if _, err := r.db.Exec("DELETE FROM top_entries WHERE top_id = ?", topID); err != nil {
		return fmt.Errorf("failed to clear top entries: %w", err)
	}
	for _, entry := range entries {
		if _, err := r.db.Exec(
			"INSERT INTO top_entries (top_id, place_id, position, comment) VALUES (?, ?, ?, ?)",
			topID, entry.PlaceID, entry.Position, entry.Comment); err != nil {
			return fmt.Errorf("failed to add top entry: %w", err)
		}
	}
	return nil
}

func (r *TopRepository) loadEntries(top *models.Top) error {
	rows, err := r.db.Query(`
		SELECT id, top_id, place_id, position, COALESCE(comment, '')
		FROM top_entries
		WHERE top_id = ?
		ORDER BY position`, top.ID)
	if err != nil {
		return fmt.Errorf("failed to query top entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.TopEntry
		if err := rows.Scan(&entry.ID, &entry.TopID, &entry.PlaceID, &entry.Position, &entry.Comment); err != nil {
			return fmt.Errorf("failed to scan top entry: %w", err)
		}
		top.Entries = append(top.Entries, entry)
	}
	return rows.Err()
}
