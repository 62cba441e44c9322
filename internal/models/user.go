package models

import (
	"strings"
	"time"
)

// Permission is a capability tag granted to a user. Permissions are a flat
// set with no hierarchy: holding SUPERADMIN does not imply ADMIN.
type Permission string

const (
	PermissionAdmin      Permission = "ADMIN"
	PermissionModerator  Permission = "MODERATOR"
	PermissionSuperAdmin Permission = "SUPERADMIN"
)

// User represents an account
type User struct {
	ID            int64        `json:"id"`
	Email         string       `json:"email"`
	Username      string       `json:"username"`
	PasswordHash  string       `json:"-"`
	Permissions   []Permission `json:"permissions"`
	Language      string       `json:"language"`
	Theme         string       `json:"theme"`
	AvatarURL     string       `json:"avatarUrl"`
	OAuthProvider string       `json:"-"`
	OAuthSubject  string       `json:"-"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// HasAnyPermission reports whether the user's permission set intersects
// the required set
func (u *User) HasAnyPermission(required ...Permission) bool {
	for _, want := range required {
		for _, have := range u.Permissions {
			if have == want {
				return true
			}
		}
	}
	return false
}

// EncodePermissions serializes a permission set for storage
func EncodePermissions(perms []Permission) string {
	parts := make([]string, 0, len(perms))
	for _, p := range perms {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

// DecodePermissions parses a stored permission set
func DecodePermissions(raw string) []Permission {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var perms []Permission
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			perms = append(perms, Permission(part))
		}
	}
	return perms
}

// ValidPermission reports whether raw names a known permission tag
func ValidPermission(raw string) bool {
	switch Permission(raw) {
	case PermissionAdmin, PermissionModerator, PermissionSuperAdmin:
		return true
	}
	return false
}
