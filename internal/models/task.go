package models

import "time"

// Task is a user-submitted item (suggestion, report) that moderators act on
type Task struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Body             string     `json:"body"`
	AuthorID         int64      `json:"authorId"`
	IsHidden         bool       `json:"isHidden"`
	ModerationReason string     `json:"moderationReason,omitempty"`
	ModeratedAt      *time.Time `json:"moderatedAt,omitempty"`
	ModeratedBy      *int64     `json:"moderatedBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
