package handlers

import (
	"net/http"
	"strings"

	"tiakaly/internal/models"
	"tiakaly/internal/repository"
)

// TaskHandler handles user-submitted tasks (suggestions and reports)
type TaskHandler struct {
	taskRepo *repository.TaskRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// Submit handles POST /api/tasks: an authenticated user files a suggestion
// or report for moderators to review
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	var payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if strings.TrimSpace(payload.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required", "", nil)
		return
	}

	task := &models.Task{
		Title:    strings.TrimSpace(payload.Title),
		Body:     payload.Body,
		AuthorID: user.ID,
	}
	created, err := h.taskRepo.CreateTask(task)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/admin/tasks: every task, hidden ones included,
// for the moderation queue
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskRepo.GetAllTasks()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
