package handlers

import (
	"log"
	"net/http"

	"tiakaly/internal/clientinfo"
	"tiakaly/internal/security"
	"tiakaly/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type userRef struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Register creates an account and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	device := clientinfo.Parse(r.UserAgent())
	ip := security.GetClientIP(r)

	user, session, err := h.authService.Register(r.Context(), payload.Email, payload.Username, payload.Password, device, ip)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		if err := h.emailService.SendWelcomeEmail(r.Context(), user.Email, user.Username); err != nil {
			// A registration is not undone by a failed greeting.
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	http.SetCookie(w, security.CreateAuthCookie(r, session.Token, session.ExpiresAt))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created",
		"userId":  user.ID,
		"token":   session.Token,
		"user":    userRef{ID: user.ID, Email: user.Email},
	})
}

// Login authenticates credentials and sets the auth cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	device := clientinfo.Parse(r.UserAgent())
	ip := security.GetClientIP(r)

	session, user, err := h.authService.Login(r.Context(), payload.Email, payload.Password, device, ip)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateAuthCookie(r, session.Token, session.ExpiresAt))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": session.Token,
		"user":  userRef{ID: user.ID, Email: user.Email},
	})
}

// Session returns the authenticated user, its session metadata and a CSRF
// token for subsequent mutations. Runs inside RequireAuth.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	session := GetSessionFromContext(r.Context())
	if user == nil || session == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.Token)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to generate CSRF token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"session":   session,
		"csrfToken": csrfToken,
	})
}

// Logout revokes the session for the auth cookie and clears it. Idempotent:
// logging out without a session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.AuthCookieName); err == nil {
		if err := h.authService.RevokeSession(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to revoke session", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteAuthCookie(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ForgotPassword starts password recovery. The response never reveals
// whether the email has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, payload.Email); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to process reset request", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

// ResetPassword consumes a reset token and sets the new password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.authService.ResetPassword(payload.Token, payload.Password); err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated, please log in"})
}
