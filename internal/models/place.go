package models

import "time"

// Place status values. Only published places are exposed to public search.
const (
	PlaceStatusDraft     = "draft"
	PlaceStatusPublished = "published"
)

// Place represents a food place in the directory
type Place struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Localisation   string    `json:"localisation"`
	Bio            string    `json:"bio"`
	Content        string    `json:"content"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	PriceMin       int       `json:"priceMin"`
	PriceMax       int       `json:"priceMax"`
	PriceInDollars int       `json:"priceInDollars"`
	Rating         float64   `json:"rating"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	MainMediaID    string    `json:"mainMediaId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Keywords []string     `json:"keywords,omitempty"`
	Menus    []Menu       `json:"menus,omitempty"`
	Contacts []Contact    `json:"contacts,omitempty"`
	Gallery  []MediaAsset `json:"gallery,omitempty"`
}

// IsPublished reports whether the place is publicly visible
func (p *Place) IsPublished() bool {
	return p.Status == PlaceStatusPublished
}

// Menu is a menu tag places can be linked to (e.g., "sushi", "grill")
type Menu struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Contact is a way to reach a place
type Contact struct {
	ID      int64  `json:"id"`
	PlaceID int64  `json:"-"`
	Kind    string `json:"kind"` // phone, email, facebook, ...
	Value   string `json:"value"`
}

// PlaceSummary is the fixed projection returned by search endpoints.
// It never carries the full entity with all relations.
type PlaceSummary struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Localisation   string    `json:"localisation"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	PriceMin       int       `json:"priceMin"`
	PriceMax       int       `json:"priceMax"`
	PriceInDollars int       `json:"priceInDollars"`
	Rating         float64   `json:"rating"`
	Type           string    `json:"type"`
	MainMediaURL   string    `json:"mainMediaUrl,omitempty"`
	Keywords       []string  `json:"keywords"`
	Menus          []Menu    `json:"menus"`
	Contacts       []Contact `json:"contacts"`
}
