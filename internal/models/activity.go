package models

import "time"

// Activity is one entry in the admin audit trail
type Activity struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actorId"`
	Verb       string    `json:"verb"` // created, updated, deleted, moderated, ...
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	CreatedAt  time.Time `json:"createdAt"`
}
