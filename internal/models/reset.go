package models

import "time"

// PasswordReset is an ephemeral credential-recovery ticket. At most one live
// ticket exists per email: issuing a new one purges the previous ones.
type PasswordReset struct {
	Token     string
	Email     string
	UserID    int64
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (r *PasswordReset) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

func (r *PasswordReset) IsValid() bool {
	return !r.Used && !r.IsExpired()
}
