package models

import "time"

// Top is a curated, ordered list of places ("top 5 brochetterie", ...)
type Top struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	MainMediaID string     `json:"mainMediaId,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Entries     []TopEntry `json:"entries,omitempty"`
}

// TopEntry is one ranked place inside a Top
type TopEntry struct {
	ID       int64  `json:"id"`
	TopID    int64  `json:"-"`
	PlaceID  int64  `json:"placeId"`
	Position int    `json:"position"`
	Comment  string `json:"comment"`
}
