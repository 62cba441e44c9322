package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tiakaly/internal/service"
	"tiakaly/internal/validation"
)

func decodeErrorBody(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	return body["error"]
}

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if got := decodeErrorBody(t, recorder); got != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", got)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", validation.ValidationError{Field: "email", Message: "invalid email format"}, http.StatusBadRequest},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest},
		{"username taken", service.ErrUsernameTaken, http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"session not found", service.ErrSessionNotFound, http.StatusUnauthorized},
		{"invalid reset token", service.ErrInvalidResetToken, http.StatusBadRequest},
		{"place not found", service.ErrPlaceNotFound, http.StatusNotFound},
		{"invalid place", service.ErrInvalidPlace, http.StatusBadRequest},
		{"wrapped invalid place", errors.New("wrapper: " + service.ErrInvalidPlace.Error()), http.StatusInternalServerError},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if msg := decodeErrorBody(t, recorder); msg == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondServiceError(recorder, errors.New("pq: connection refused on 10.0.0.5"))

	if got := decodeErrorBody(t, recorder); got != "Internal server error" {
		t.Errorf("client message = %q, want generic Internal server error", got)
	}
	if strings.Contains(recorder.Body.String(), "10.0.0.5") {
		t.Error("internal error detail leaked to the client")
	}
}
