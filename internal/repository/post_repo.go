package repository

import (
	"database/sql"
	"fmt"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// PostRepository handles database operations for Instagram post references
type PostRepository struct {
	db *database.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, url, COALESCE(caption, ''), place_id, status, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*models.PostInsta, error) {
	post := &models.PostInsta{}
	err := row.Scan(
		&post.ID,
		&post.URL,
		&post.Caption,
		&post.PlaceID,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// CreatePost inserts a new Instagram post reference
func (r *PostRepository) CreatePost(post *models.PostInsta) (*models.PostInsta, error) {
	query := "INSERT INTO posts_insta (url, caption, place_id, status) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, post.URL, post.Caption, post.PlaceID, post.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return post, nil
}

// UpdatePost updates an Instagram post reference
func (r *PostRepository) UpdatePost(post *models.PostInsta) error {
	query := `
		UPDATE posts_insta
		SET url = ?, caption = ?, place_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, post.URL, post.Caption, post.PlaceID, post.Status, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePost deletes an Instagram post reference
func (r *PostRepository) DeletePost(id int64) error {
	if _, err := r.db.Exec("DELETE FROM posts_insta WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// GetPostByID retrieves an Instagram post reference by ID
func (r *PostRepository) GetPostByID(id int64) (*models.PostInsta, error) {
	return scanPost(r.db.QueryRow("SELECT "+postColumns+" FROM posts_insta WHERE id = ?", id))
}

// GetAllPosts retrieves all Instagram post references, newest first
func (r *PostRepository) GetAllPosts() ([]models.PostInsta, error) {
	rows, err := r.db.Query("SELECT " + postColumns + " FROM posts_insta ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PostInsta
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}
