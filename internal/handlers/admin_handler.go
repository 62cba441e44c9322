package handlers

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"tiakaly/internal/models"
	"tiakaly/internal/repository"
	"tiakaly/internal/service"
)

// AdminHandler handles the back-office API: content CRUD, media uploads,
// user administration, moderation and the audit trail
type AdminHandler struct {
	placeService *service.PlaceService
	menuRepo     *repository.MenuRepository
	topRepo      *repository.TopRepository
	postRepo     *repository.PostRepository
	mediaRepo    *repository.MediaRepository
	taskRepo     *repository.TaskRepository
	userRepo     *repository.UserRepository
	activityRepo *repository.ActivityRepository

	uploadPath    string
	uploadMaxSize int64
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	placeService *service.PlaceService,
	menuRepo *repository.MenuRepository,
	topRepo *repository.TopRepository,
	postRepo *repository.PostRepository,
	mediaRepo *repository.MediaRepository,
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	uploadPath string,
	uploadMaxSize int64,
) *AdminHandler {
	return &AdminHandler{
		placeService:  placeService,
		menuRepo:      menuRepo,
		topRepo:       topRepo,
		postRepo:      postRepo,
		mediaRepo:     mediaRepo,
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		activityRepo:  activityRepo,
		uploadPath:    uploadPath,
		uploadMaxSize: uploadMaxSize,
	}
}

// recordActivity appends an audit entry for a mutating admin action.
// Audit failures are logged, never surfaced: the mutation already happened.
func (h *AdminHandler) recordActivity(r *http.Request, verb, entityType, entityID string) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		return
	}
	if err := h.activityRepo.Record(user.ID, verb, entityType, entityID); err != nil {
		log.Printf("Failed to record activity %s %s/%s: %v", verb, entityType, entityID, err)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// --- Places ---

// ListPlaces handles GET /api/admin/places: every place, drafts included
func (h *AdminHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.placeService.ListPlaces()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list places", err)
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// GetPlace handles GET /api/admin/places/{id}
func (h *AdminHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid place id", "", nil)
		return
	}
	place, err := h.placeService.GetPlace(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// CreatePlace handles POST /api/admin/places
func (h *AdminHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var place models.Place
	if err := decodeJSON(r, &place); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	created, err := h.placeService.CreatePlace(&place)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.recordActivity(r, "created", "place", strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePlace handles PUT /api/admin/places/{id}
func (h *AdminHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid place id", "", nil)
		return
	}

	var place models.Place
	if err := decodeJSON(r, &place); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	place.ID = id

	updated, err := h.placeService.UpdatePlace(&place)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.recordActivity(r, "updated", "place", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, updated)
}

// DeletePlace handles DELETE /api/admin/places/{id}
func (h *AdminHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid place id", "", nil)
		return
	}

	if err := h.placeService.DeletePlace(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete place", err)
		return
	}

	h.recordActivity(r, "deleted", "place", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Place deleted"})
}

// --- Menus ---

// CreateMenu handles POST /api/admin/menus
func (h *AdminHandler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required", "", nil)
		return
	}

	menu, err := h.menuRepo.CreateMenu(strings.TrimSpace(payload.Name))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create menu", err)
		return
	}

	h.recordActivity(r, "created", "menu", strconv.FormatInt(menu.ID, 10))
	writeJSON(w, http.StatusCreated, menu)
}

// DeleteMenu handles DELETE /api/admin/menus/{id}
func (h *AdminHandler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid menu id", "", nil)
		return
	}

	if err := h.menuRepo.DeleteMenu(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete menu", err)
		return
	}

	h.recordActivity(r, "deleted", "menu", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu deleted"})
}

// --- Tops ---

// ListTops handles GET /api/admin/tops
func (h *AdminHandler) ListTops(w http.ResponseWriter, r *http.Request) {
	tops, err := h.topRepo.GetAllTops()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list tops", err)
		return
	}
	writeJSON(w, http.StatusOK, tops)
}

// GetTop handles GET /api/admin/tops/{id}
func (h *AdminHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid top id", "", nil)
		return
	}
	top, err := h.topRepo.GetTopByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to get top", err)
		return
	}
	if top == nil {
		respondWithError(w, http.StatusNotFound, "Top not found", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// CreateTop handles POST /api/admin/tops
func (h *AdminHandler) CreateTop(w http.ResponseWriter, r *http.Request) {
	var top models.Top
	if err := decodeJSON(r, &top); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if strings.TrimSpace(top.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required", "", nil)
		return
	}
	if top.Status == "" {
		top.Status = models.PlaceStatusDraft
	}
	top.Slug = service.Slugify(top.Title)

	created, err := h.topRepo.CreateTop(&top)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create top", err)
		return
	}

	h.recordActivity(r, "created", "top", strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTop handles PUT /api/admin/tops/{id}
func (h *AdminHandler) UpdateTop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid top id", "", nil)
		return
	}

	var top models.Top
	if err := decodeJSON(r, &top); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	top.ID = id
	top.Slug = service.Slugify(top.Title)

	if err := h.topRepo.UpdateTop(&top); err != nil {
		if isSQLNoRows(err) {
			respondWithError(w, http.StatusNotFound, "Top not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to update top", err)
		return
	}

	h.recordActivity(r, "updated", "top", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, top)
}

// DeleteTop handles DELETE /api/admin/tops/{id}
func (h *AdminHandler) DeleteTop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid top id", "", nil)
		return
	}

	if err := h.topRepo.DeleteTop(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete top", err)
		return
	}

	h.recordActivity(r, "deleted", "top", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Top deleted"})
}

// --- Instagram posts ---

// ListPosts handles GET /api/admin/posts
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.GetAllPosts()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/admin/posts
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.PostInsta
	if err := decodeJSON(r, &post); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if strings.TrimSpace(post.URL) == "" {
		respondWithError(w, http.StatusBadRequest, "URL is required", "", nil)
		return
	}
	if post.Status == "" {
		post.Status = models.PlaceStatusDraft
	}

	created, err := h.postRepo.CreatePost(&post)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create post", err)
		return
	}

	h.recordActivity(r, "created", "post", strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePost handles PUT /api/admin/posts/{id}
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post id", "", nil)
		return
	}

	var post models.PostInsta
	if err := decodeJSON(r, &post); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	post.ID = id

	if err := h.postRepo.UpdatePost(&post); err != nil {
		if isSQLNoRows(err) {
			respondWithError(w, http.StatusNotFound, "Post not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to update post", err)
		return
	}

	h.recordActivity(r, "updated", "post", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/admin/posts/{id}
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post id", "", nil)
		return
	}

	if err := h.postRepo.DeletePost(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete post", err)
		return
	}

	h.recordActivity(r, "deleted", "post", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// --- Media ---

// allowedUploadTypes are the MIME types accepted for media uploads
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
}

// UploadMedia handles POST /api/admin/media: a multipart upload stored on
// disk under a fresh UUID
func (h *AdminHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Upload too large or malformed", "", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field", "", err)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext, ok := allowedUploadTypes[mimeType]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Unsupported media type", "", nil)
		return
	}

	id := uuid.NewString()
	filename := id + ext

	if err := os.MkdirAll(h.uploadPath, 0o755); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create upload dir", err)
		return
	}

	dst, err := os.Create(filepath.Join(h.uploadPath, filename))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create upload file", err)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to store upload", err)
		return
	}

	media := &models.MediaAsset{
		ID:        id,
		URL:       "/media/" + filename,
		MimeType:  mimeType,
		SizeBytes: size,
		AltText:   r.FormValue("altText"),
	}
	if err := h.mediaRepo.CreateMedia(media); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to save media record", err)
		return
	}

	h.recordActivity(r, "created", "media", media.ID)
	writeJSON(w, http.StatusCreated, media)
}

// ListMedia handles GET /api/admin/media
func (h *AdminHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := h.mediaRepo.GetAllMedia()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list media", err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// DeleteMedia handles DELETE /api/admin/media/{id}: removes the record and
// the stored file
func (h *AdminHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid media id", "", nil)
		return
	}

	media, err := h.mediaRepo.GetMediaByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to get media", err)
		return
	}
	if media == nil {
		respondWithError(w, http.StatusNotFound, "Media not found", "", nil)
		return
	}

	if err := h.mediaRepo.DeleteMedia(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete media", err)
		return
	}

	if name := filepath.Base(media.URL); name != "" && name != "." {
		if err := os.Remove(filepath.Join(h.uploadPath, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove media file %s: %v", name, err)
		}
	}

	h.recordActivity(r, "deleted", "media", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Media deleted"})
}

// --- Users ---

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateUserPermissions handles PATCH /api/admin/users/{id}/permissions.
// Restricted to ADMIN or SUPERADMIN by routing.
func (h *AdminHandler) UpdateUserPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id", "", nil)
		return
	}

	var payload struct {
		Permissions []models.Permission `json:"permissions"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	for _, p := range payload.Permissions {
		if !models.ValidPermission(string(p)) {
			respondWithError(w, http.StatusBadRequest, "Unknown permission: "+string(p), "", nil)
			return
		}
	}

	if err := h.userRepo.UpdatePermissions(id, payload.Permissions); err != nil {
		if isSQLNoRows(err) {
			respondWithError(w, http.StatusNotFound, "User not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to update permissions", err)
		return
	}

	h.recordActivity(r, "updated", "user-permissions", strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Permissions updated"})
}

// --- Moderation ---

// ModerateTask handles PUT /api/admin/moderate-task. Restricted to
// MODERATOR by routing.
func (h *AdminHandler) ModerateTask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID               int64  `json:"id"`
		IsHidden         bool   `json:"isHidden"`
		ModerationReason string `json:"moderationReason"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	moderator := GetUserFromContext(r.Context())
	if moderator == nil {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
		return
	}

	if err := h.taskRepo.ModerateTask(payload.ID, payload.IsHidden, payload.ModerationReason, moderator.ID); err != nil {
		if isSQLNoRows(err) {
			respondWithError(w, http.StatusNotFound, "Task not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to moderate task", err)
		return
	}

	task, err := h.taskRepo.GetTaskByID(payload.ID)
	if err != nil || task == nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to reload task", err)
		return
	}

	h.recordActivity(r, "moderated", "task", strconv.FormatInt(payload.ID, 10))
	writeJSON(w, http.StatusOK, task)
}

// --- Audit trail ---

// ListActivity handles GET /api/admin/activity
func (h *AdminHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r.URL.Query().Get("limit"))
	activities, err := h.activityRepo.GetRecent(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list activity", err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
