package models

import "time"

// MediaAsset is an uploaded image or video referenced by places, tops and
// Instagram posts. IDs are UUIDs assigned at upload time.
type MediaAsset struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	AltText   string    `json:"altText"`
	CreatedAt time.Time `json:"createdAt"`
}
