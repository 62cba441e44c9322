package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"tiakaly/internal/service"
	"tiakaly/internal/validation"
)

// isSQLNoRows reports whether a repository error means "no matching row"
func isSQLNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// respondWithError writes a JSON error body. Internal detail goes to the log,
// never to the client.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	writeJSON(w, status, map[string]string{"error": userMsg})
}

// respondServiceError is the single translation boundary from service errors
// to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Message, "", nil)
	// Duplicate-field conflicts and bad credentials surface as 400 with a
	// descriptive message; 401 is reserved for missing or invalid tokens.
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, "Email already registered", "", nil)
	case errors.Is(err, service.ErrUsernameTaken):
		respondWithError(w, http.StatusBadRequest, "Username already taken", "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusBadRequest, "Invalid email or password", "", nil)
	case errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
	case errors.Is(err, service.ErrInvalidResetToken):
		respondWithError(w, http.StatusBadRequest, "Invalid or expired reset link", "", nil)
	case errors.Is(err, service.ErrPlaceNotFound):
		respondWithError(w, http.StatusNotFound, "Place not found", "", nil)
	case errors.Is(err, service.ErrInvalidPlace):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Unhandled service error", err)
	}
}
