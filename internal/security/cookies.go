package security

import (
	"net/http"
	"time"
)

// AuthCookieName is the sole bearer-credential carrier
const AuthCookieName = "auth-token"

// IsSecureRequest determines if the request is over HTTPS, either directly
// or behind a reverse proxy
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if r.URL.Scheme == "https" {
		return true
	}
	return false
}

// CreateAuthCookie creates the auth-token cookie with proper security flags.
// A nil expiry produces a session cookie that outlives until explicit logout.
func CreateAuthCookie(r *http.Request, token string, expiresAt *time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if expiresAt != nil {
		cookie.Expires = *expiresAt
	}
	return cookie
}

// CreateDeleteAuthCookie creates the cookie that clears auth-token on logout
func CreateDeleteAuthCookie(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
