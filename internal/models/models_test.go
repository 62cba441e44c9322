package models

import (
	"testing"
	"time"
)

func TestHasAnyPermission(t *testing.T) {
	tests := []struct {
		name     string
		held     []Permission
		required []Permission
		want     bool
	}{
		{"exact match", []Permission{PermissionAdmin}, []Permission{PermissionAdmin}, true},
		{"one of several required", []Permission{PermissionModerator}, []Permission{PermissionAdmin, PermissionModerator}, true},
		{"no overlap", []Permission{PermissionModerator}, []Permission{PermissionAdmin}, false},
		{"superadmin does not imply admin", []Permission{PermissionSuperAdmin}, []Permission{PermissionAdmin}, false},
		{"empty held set", nil, []Permission{PermissionAdmin}, false},
		{"empty required set", []Permission{PermissionAdmin}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Permissions: tt.held}
			if got := u.HasAnyPermission(tt.required...); got != tt.want {
				t.Errorf("HasAnyPermission(%v) with %v = %v, want %v", tt.required, tt.held, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodePermissions(t *testing.T) {
	perms := []Permission{PermissionAdmin, PermissionSuperAdmin}
	encoded := EncodePermissions(perms)
	if encoded != "ADMIN,SUPERADMIN" {
		t.Errorf("EncodePermissions = %q, want ADMIN,SUPERADMIN", encoded)
	}

	decoded := DecodePermissions(encoded)
	if len(decoded) != 2 || decoded[0] != PermissionAdmin || decoded[1] != PermissionSuperAdmin {
		t.Errorf("DecodePermissions(%q) = %v", encoded, decoded)
	}
}

func TestDecodePermissionsMessyInput(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"ADMIN", 1},
		{"ADMIN, MODERATOR", 2},
		{"ADMIN,,MODERATOR,", 2},
	}

	for _, tt := range tests {
		if got := DecodePermissions(tt.raw); len(got) != tt.want {
			t.Errorf("DecodePermissions(%q) = %v, want %d entries", tt.raw, got, tt.want)
		}
	}
}

func TestValidPermission(t *testing.T) {
	for _, raw := range []string{"ADMIN", "MODERATOR", "SUPERADMIN"} {
		if !ValidPermission(raw) {
			t.Errorf("ValidPermission(%q) = false", raw)
		}
	}
	for _, raw := range []string{"", "admin", "ROOT", "ADMIN "} {
		if ValidPermission(raw) {
			t.Errorf("ValidPermission(%q) = true", raw)
		}
	}
}

func TestSessionIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"no expiry never expires", nil, false},
		{"future expiry", &future, false},
		{"past expiry", &past, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{ExpiresAt: tt.expiresAt}
			if got := s.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordResetIsValid(t *testing.T) {
	tests := []struct {
		name      string
		used      bool
		expiresAt time.Time
		want      bool
	}{
		{"live ticket", false, time.Now().Add(time.Hour), true},
		{"used ticket", true, time.Now().Add(time.Hour), false},
		{"expired ticket", false, time.Now().Add(-time.Minute), false},
		{"used and expired", true, time.Now().Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &PasswordReset{Used: tt.used, ExpiresAt: tt.expiresAt}
			if got := r.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaceIsPublished(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{PlaceStatusPublished, true},
		{PlaceStatusDraft, false},
		{"", false},
		{"Published", false},
	}

	for _, tt := range tests {
		p := &Place{Status: tt.status}
		if got := p.IsPublished(); got != tt.want {
			t.Errorf("IsPublished() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
