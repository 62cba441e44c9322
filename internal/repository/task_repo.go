package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// TaskRepository handles database operations for moderatable tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, body, author_id, is_hidden,
	COALESCE(moderation_reason, ''), moderated_at, moderated_by, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Body,
		&task.AuthorID,
		&task.IsHidden,
		&task.ModerationReason,
		&task.ModeratedAt,
		&task.ModeratedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a new task
func (r *TaskRepository) CreateTask(task *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (title, body, author_id) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, task.Title, task.Body, task.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = id
	return task, nil
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(id int64) (*models.Task, error) {
	return scanTask(r.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
}

// GetAllTasks retrieves all tasks, newest first
func (r *TaskRepository) GetAllTasks() ([]models.Task, error) {
	rows, err := r.db.Query("SELECT " + taskColumns + " FROM tasks ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// ModerateTask stamps a moderation decision onto a task
func (r *TaskRepository) ModerateTask(id int64, isHidden bool, reason string, moderatorID int64) error {
	query := `
		UPDATE tasks
		SET is_hidden = ?, moderation_reason = ?, moderated_at = ?, moderated_by = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, isHidden, reason, time.Now(), moderatorID, id)
	if err != nil {
		return fmt.Errorf("failed to moderate task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read moderation result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
