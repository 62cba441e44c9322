package models

import "time"

// Session binds an opaque bearer token to a user and the device it was
// issued to. The token is the lookup key and is never reused after deletion.
type Session struct {
	Token          string     `json:"-"`
	UserID         int64      `json:"userId"`
	DeviceType     string     `json:"deviceType"`
	DeviceOS       string     `json:"deviceOs"`
	DeviceModel    string     `json:"deviceModel"`
	Browser        string     `json:"browser"`
	BrowserVersion string     `json:"browserVersion"`
	IP             string     `json:"ip"`
	Country        string     `json:"country"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastActiveAt   time.Time  `json:"lastActiveAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the session has passed its expiry. Sessions
// without an expiry never expire and live until explicit logout.
func (s *Session) IsExpired() bool {
	if s.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*s.ExpiresAt)
}
