package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiakaly/internal/clientinfo"
	"tiakaly/internal/geoip"
	"tiakaly/internal/models"
	"tiakaly/internal/repository"
	"tiakaly/internal/security"
	"tiakaly/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// AuthService handles authentication business logic: registration, login,
// session issuance and resolution, permission checks and password recovery
type AuthService struct {
	userRepo        *repository.UserRepository
	geo             *geoip.Client
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service. A zero sessionDuration means
// sessions never expire and live until explicit logout.
func NewAuthService(userRepo *repository.UserRepository, geo *geoip.Client, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		geo:             geo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account and issues its first session
func (s *AuthService) Register(ctx context.Context, email, username, password string, device clientinfo.DeviceInfo, ip string) (*models.User, *models.Session, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	existing, err = s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, username, passwordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Session creation is a second, separate write: a failure here leaves
	// a valid account that can simply log in.
	session, err := s.IssueSession(ctx, user.ID, device, ip)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Login authenticates a user and issues a new session for the device
func (s *AuthService) Login(ctx context.Context, email, password string, device clientinfo.DeviceInfo, ip string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.IssueSession(ctx, user.ID, device, ip)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// IssueSession generates an opaque token and persists a session row binding
// it to the user plus device metadata. Geo lookup is best-effort.
func (s *AuthService) IssueSession(ctx context.Context, userID int64, device clientinfo.DeviceInfo, ip string) (*models.Session, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}

	country := geoip.UnknownCountry
	if s.geo != nil {
		country = s.geo.Country(ctx, ip)
	}

	session := &models.Session{
		Token:          token,
		UserID:         userID,
		DeviceType:     device.DeviceType,
		DeviceOS:       device.OS,
		DeviceModel:    device.Model,
		Browser:        device.Browser,
		BrowserVersion: device.BrowserVersion,
		IP:             ip,
		Country:        country,
		CreatedAt:      time.Now(),
		LastActiveAt:   time.Now(),
	}
	if s.sessionDuration > 0 {
		expiresAt := time.Now().Add(s.sessionDuration)
		session.ExpiresAt = &expiresAt
	}

	if err := s.userRepo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ResolveSession looks up a session by exact token match. Expired sessions
// (only possible when a session duration is configured) are removed and
// reported as not found.
func (s *AuthService) ResolveSession(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.userRepo.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(token)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// ResolveUser resolves a token to its session and user, refreshing the
// session's last-active timestamp. The user's password hash is never
// serialized to clients.
func (s *AuthService) ResolveUser(token string) (*models.User, *models.Session, error) {
	session, err := s.ResolveSession(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrSessionNotFound
	}

	if err := s.userRepo.TouchSession(token); err != nil {
		// Refreshing last-active is advisory; the identity is already
		// established.
		return user, session, nil
	}

	return user, session, nil
}

// Authorize reports whether the user's permission set intersects the
// required set. Pure capability check, no role hierarchy.
func (s *AuthService) Authorize(user *models.User, required ...models.Permission) bool {
	if user == nil {
		return false
	}
	return user.HasAnyPermission(required...)
}

// RevokeSession deletes the session for a token. Idempotent: revoking an
// absent token is not an error.
func (s *AuthService) RevokeSession(token string) error {
	if token == "" {
		return nil
	}
	if err := s.userRepo.DeleteSession(token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a user via an OAuth provider and
// issues a session, linking by provider+subject
func (s *AuthService) OAuthLogin(ctx context.Context, provider, subject, email, name string, device clientinfo.DeviceInfo, ip string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.userRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = existing
		} else {
			username, err := s.availableUsername(name, email)
			if err != nil {
				return nil, nil, err
			}

			// Social-only accounts get an unguessable password hash so
			// credential login stays impossible until a reset.
			randomSecret, err := security.GenerateToken()
			if err != nil {
				return nil, nil, err
			}
			randomHash, err := security.HashPassword(randomSecret)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to hash oauth password: %w", err)
			}

			created, err := s.userRepo.CreateUser(email, username, randomHash)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
			}
			if err := s.userRepo.LinkOAuthProvider(created.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = created
		}
	}

	session, err := s.IssueSession(ctx, user.ID, device, ip)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// availableUsername derives a free username from an OAuth display name or
// email local part
func (s *AuthService) availableUsername(name, email string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", ".")
	if base == "" {
		base = strings.Split(email, "@")[0]
	}
	if len(base) < 3 {
		base = base + "-user"
	}

	candidate := base
	for i := 2; ; i++ {
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// RequestPasswordReset creates a reset ticket and sends the reset email.
// It never reveals whether the email exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := security.GenerateToken()
	if err != nil {
		return err
	}

	// At most one live ticket per email: purge the previous ones first.
	if err := s.userRepo.DeletePasswordResetsByEmail(email); err != nil {
		return err
	}

	reset := &models.PasswordReset{
		Token:     token,
		Email:     email,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.userRepo.CreatePasswordReset(reset); err != nil {
		return err
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ResetPassword consumes a valid reset ticket and replaces the user's
// password, revoking every existing session for the account
func (s *AuthService) ResetPassword(token, newPassword string) error {
	reset, err := s.userRepo.GetPasswordReset(token)
	if err != nil {
		return fmt.Errorf("failed to get reset ticket: %w", err)
	}
	if reset == nil || !reset.IsValid() {
		return ErrInvalidResetToken
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(reset.UserID, passwordHash); err != nil {
		return err
	}

	if err := s.userRepo.MarkPasswordResetUsed(token); err != nil {
		return err
	}

	// Force re-login on every device after a password change.
	_ = s.userRepo.DeleteUserSessions(reset.UserID)

	return nil
}

// CleanupExpired removes expired sessions and reset tickets
func (s *AuthService) CleanupExpired() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return err
	}
	return s.userRepo.DeleteExpiredPasswordResets()
}
