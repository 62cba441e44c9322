package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"tiakaly/internal/clientinfo"
	"tiakaly/internal/database"
	"tiakaly/internal/models"
	"tiakaly/internal/repository"
)

var testDevice = clientinfo.DeviceInfo{
	DeviceType:     "desktop",
	OS:             "Linux",
	Browser:        "Firefox",
	BrowserVersion: "121.0",
}

func newAuthTestService(t *testing.T, dbPath string, sessionDuration time.Duration) (*AuthService, *database.DB) {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// nil geo client: lookups resolve to Unknown without network access
	return NewAuthService(repository.NewUserRepository(db), nil, sessionDuration), db
}

func TestRegisterFirstUserBecomesSuperAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_register.db", 0)
	ctx := context.Background()

	first, session, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, "203.0.113.1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !first.HasAnyPermission(models.PermissionAdmin) || !first.HasAnyPermission(models.PermissionSuperAdmin) {
		t.Errorf("first user permissions = %v, want ADMIN and SUPERADMIN", first.Permissions)
	}
	if len(session.Token) != 64 {
		t.Errorf("session token length = %d, want 64", len(session.Token))
	}
	if session.ExpiresAt != nil {
		t.Error("zero session duration should issue a session without expiry")
	}
	if session.Country != "Unknown" {
		t.Errorf("session country = %q, want Unknown without a geo client", session.Country)
	}

	second, _, err := svc.Register(ctx, "guest@example.com", "guest", "secret123", testDevice, "203.0.113.2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(second.Permissions) != 0 {
		t.Errorf("second user permissions = %v, want none", second.Permissions)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_duplicates.db", 0)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, err := svc.Register(ctx, "owner@example.com", "other", "secret123", testDevice, "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}

	_, _, err = svc.Register(ctx, "other@example.com", "owner", "secret123", testDevice, "")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, want ErrUsernameTaken", err)
	}
}

func TestLoginAndResolveUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_login.db", 0)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "owner@example.com", "wrongpass", testDevice, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret123", testDevice, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}

	session, user, err := svc.Login(ctx, "owner@example.com", "secret123", testDevice, "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	resolved, resolvedSession, err := svc.ResolveUser(session.Token)
	if err != nil {
		t.Fatalf("ResolveUser failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved user id = %d, want %d", resolved.ID, user.ID)
	}
	if resolvedSession.Token != session.Token {
		t.Error("resolved session does not match the issued one")
	}
}

func TestRevokeSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_revoke.db", 0)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.RevokeSession(session.Token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if _, err := svc.ResolveSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("revoked session error = %v, want ErrSessionNotFound", err)
	}

	// Revoking again, or revoking nothing, is not an error.
	if err := svc.RevokeSession(session.Token); err != nil {
		t.Errorf("second revoke error = %v, want nil", err)
	}
	if err := svc.RevokeSession(""); err != nil {
		t.Errorf("empty token revoke error = %v, want nil", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_expiry.db", 10*time.Millisecond)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.ExpiresAt == nil {
		t.Fatal("configured session duration should set an expiry")
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := svc.ResolveSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, db := newAuthTestService(t, "test_auth_reset.db", 0)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email: no error, nothing to enumerate.
	if err := svc.RequestPasswordReset(ctx, nil, "nobody@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset for unknown email failed: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, nil, "owner@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	// A second request replaces the first ticket.
	if err := svc.RequestPasswordReset(ctx, nil, "owner@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM password_resets WHERE email = ?", "owner@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to count reset tickets: %v", err)
	}
	if count != 1 {
		t.Errorf("live reset tickets = %d, want 1", count)
	}

	var token string
	if err := db.QueryRow("SELECT token FROM password_resets WHERE email = ?", "owner@example.com").Scan(&token); err != nil {
		t.Fatalf("Failed to read reset token: %v", err)
	}

	if err := svc.ResetPassword(token, "newsecret123"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// Every existing session is revoked by the reset.
	if _, err := svc.ResolveSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session after reset error = %v, want ErrSessionNotFound", err)
	}

	if _, _, err := svc.Login(ctx, "owner@example.com", "secret123", testDevice, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password after reset error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "owner@example.com", "newsecret123", testDevice, ""); err != nil {
		t.Errorf("new password login failed: %v", err)
	}

	// The ticket is single use.
	if err := svc.ResetPassword(token, "another123"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("reused ticket error = %v, want ErrInvalidResetToken", err)
	}
}

func TestOAuthLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_oauth.db", 0)
	ctx := context.Background()

	session, user, err := svc.OAuthLogin(ctx, "google", "sub-123", "jane@example.com", "Jane Doe", testDevice, "")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if user.Username != "jane.doe" {
		t.Errorf("derived username = %q, want jane.doe", user.Username)
	}
	if len(session.Token) != 64 {
		t.Errorf("session token length = %d, want 64", len(session.Token))
	}

	// Same provider and subject resolves to the same account.
	_, again, err := svc.OAuthLogin(ctx, "google", "sub-123", "jane@example.com", "Jane Doe", testDevice, "")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("repeat oauth login user id = %d, want %d", again.ID, user.ID)
	}

	// A different subject with a colliding display name gets a suffixed username.
	_, other, err := svc.OAuthLogin(ctx, "google", "sub-456", "jane2@example.com", "Jane Doe", testDevice, "")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if other.Username != "jane.doe2" {
		t.Errorf("colliding username = %q, want jane.doe2", other.Username)
	}

	// Missing provider data is rejected outright.
	if _, _, err := svc.OAuthLogin(ctx, "", "sub-789", "x@example.com", "X", testDevice, ""); err == nil {
		t.Error("OAuthLogin with empty provider should fail")
	}
}

func TestOAuthLoginLinksExistingAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, _ := newAuthTestService(t, "test_auth_oauth_link.db", 0)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "owner@example.com", "owner", "secret123", testDevice, "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, linked, err := svc.OAuthLogin(ctx, "facebook", "fb-1", "owner@example.com", "Owner", testDevice, "")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if linked.ID != registered.ID {
		t.Errorf("linked user id = %d, want existing account %d", linked.ID, registered.ID)
	}

	// The account is now bound to facebook; another provider cannot claim it.
	if _, _, err := svc.OAuthLogin(ctx, "google", "g-1", "owner@example.com", "Owner", testDevice, ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("cross-provider claim error = %v, want ErrEmailTaken", err)
	}
}
