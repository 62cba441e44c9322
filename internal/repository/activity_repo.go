package repository

import (
	"fmt"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// ActivityRepository handles the admin audit trail
type ActivityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record appends one audit entry
func (r *ActivityRepository) Record(actorID int64, verb, entityType, entityID string) error {
	query := "INSERT INTO activities (actor_id, verb, entity_type, entity_id) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, actorID, verb, entityType, entityID); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// GetRecent retrieves the latest audit entries
func (r *ActivityRepository) GetRecent(limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, actor_id, verb, entity_type, entity_id, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT %d`, limit)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.ActorID,
			&activity.Verb,
			&activity.EntityType,
			&activity.EntityID,
			&activity.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
