package models

import "time"

// PostInsta references an Instagram post featured on the site, optionally
// linked to a place
type PostInsta struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	PlaceID   *int64    `json:"placeId,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
