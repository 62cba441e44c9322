package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// UserRepository handles database operations for users, sessions and
// password reset tickets
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, permissions,
	COALESCE(language, ''), COALESCE(theme, ''), COALESCE(avatar_url, ''),
	COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var permissions string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&permissions,
		&user.Language,
		&user.Theme,
		&user.AvatarURL,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Permissions = models.DecodePermissions(permissions)
	return user, nil
}

// CreateUser inserts a new user. The first user registered becomes a
// superadmin so the back-office is reachable on a fresh install.
func (r *UserRepository) CreateUser(email, username, passwordHash string) (*models.User, error) {
	var userCount int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var permissions []models.Permission
	if userCount == 0 {
		permissions = []models.Permission{models.PermissionAdmin, models.PermissionSuperAdmin}
	}

	query := `
		INSERT INTO users (email, username, password_hash, permissions)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, username, passwordHash, models.EncodePermissions(permissions))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Permissions:  permissions,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetUserByEmail retrieves a user by email address (case-sensitive)
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(r.db.QueryRow(query, email))
}

// GetUserByUsername retrieves a user by username (case-sensitive)
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"
	return scanUser(r.db.QueryRow(query, username))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByOAuth retrieves a user by OAuth provider and subject
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider links an existing user to an OAuth provider. Fails when
// the user is already linked to a different provider.
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

// GetAllUsers retrieves all users, newest first
func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// UpdatePermissions replaces a user's permission set
func (r *UserRepository) UpdatePermissions(userID int64, permissions []models.Permission) error {
	query := "UPDATE users SET permissions = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := r.db.Exec(query, models.EncodePermissions(permissions), userID)
	if err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, passwordHash, userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateProfile updates a user's preference fields
func (r *UserRepository) UpdateProfile(userID int64, language, theme, avatarURL string) error {
	query := `
		UPDATE users
		SET language = ?, theme = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, language, theme, avatarURL, userID); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// CreateSession persists a new session row binding token to user plus
// device metadata
func (r *UserRepository) CreateSession(session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, device_type, device_os, device_model, browser, browser_version, ip, country, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		session.Token,
		session.UserID,
		session.DeviceType,
		session.DeviceOS,
		session.DeviceModel,
		session.Browser,
		session.BrowserVersion,
		session.IP,
		session.Country,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by exact token match
func (r *UserRepository) GetSession(token string) (*models.Session, error) {
	query := `
		SELECT token, user_id, device_type, device_os, device_model, browser, browser_version, ip, country,
			created_at, last_active_at, expires_at
		FROM sessions
		WHERE token = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.DeviceType,
		&session.DeviceOS,
		&session.DeviceModel,
		&session.Browser,
		&session.BrowserVersion,
		&session.IP,
		&session.Country,
		&session.CreatedAt,
		&session.LastActiveAt,
		&session.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// TouchSession refreshes a session's last-active timestamp
func (r *UserRepository) TouchSession(token string) error {
	query := "UPDATE sessions SET last_active_at = CURRENT_TIMESTAMP WHERE token = ?"
	if _, err := r.db.Exec(query, token); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Deleting an absent token is not an error.
func (r *UserRepository) DeleteSession(token string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions removes every session belonging to a user
func (r *UserRepository) DeleteUserSessions(userID int64) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *UserRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// CreatePasswordReset stores a new reset ticket
func (r *UserRepository) CreatePasswordReset(reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (token, email, user_id, expires_at, used)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, reset.Token, reset.Email, reset.UserID, reset.ExpiresAt, reset.Used)
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// GetPasswordReset retrieves a reset ticket by token
func (r *UserRepository) GetPasswordReset(token string) (*models.PasswordReset, error) {
	query := `
		SELECT token, email, user_id, expires_at, used, created_at
		FROM password_resets
		WHERE token = ?
	`
	reset := &models.PasswordReset{}
	err := r.db.QueryRow(query, token).Scan(
		&reset.Token,
		&reset.Email,
		&reset.UserID,
		&reset.ExpiresAt,
		&reset.Used,
		&reset.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset: %w", err)
	}

	return reset, nil
}

// DeletePasswordResetsByEmail purges all reset tickets for an email,
// enforcing the at-most-one-live-ticket rule
func (r *UserRepository) DeletePasswordResetsByEmail(email string) error {
	if _, err := r.db.Exec("DELETE FROM password_resets WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete password resets: %w", err)
	}
	return nil
}

// MarkPasswordResetUsed flags a reset ticket as consumed
func (r *UserRepository) MarkPasswordResetUsed(token string) error {
	query := "UPDATE password_resets SET used = ? WHERE token = ?"
	if _, err := r.db.Exec(query, true, token); err != nil {
		return fmt.Errorf("failed to mark password reset used: %w", err)
	}
	return nil
}

// DeleteExpiredPasswordResets removes reset tickets past their expiry
func (r *UserRepository) DeleteExpiredPasswordResets() error {
	query := "DELETE FROM password_resets WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired password resets: %w", err)
	}
	return nil
}
