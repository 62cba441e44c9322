package handlers

import (
	"net/http"

	"tiakaly/internal/repository"
	"tiakaly/internal/search"
	"tiakaly/internal/service"
)

// PlaceHandler handles the public place endpoints
type PlaceHandler struct {
	placeService *service.PlaceService
	menuRepo     *repository.MenuRepository
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *service.PlaceService, menuRepo *repository.MenuRepository) *PlaceHandler {
	return &PlaceHandler{placeService: placeService, menuRepo: menuRepo}
}

// List handles GET /api/places: every published place as summaries,
// newest first. An empty filter matches all published places.
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.placeService.Search(search.PlaceFilter{}, search.OrderNewest)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list places", err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/places/{slug}: the full published place with its
// keywords, menus and contacts. Drafts are not exposed.
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	place, err := h.placeService.GetPublishedPlace(r.PathValue("slug"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, place)
}

// ListMenus handles GET /api/menus: the menu tags available for filtering
func (h *PlaceHandler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menuRepo.GetAllMenus()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list menus", err)
		return
	}

	writeJSON(w, http.StatusOK, menus)
}
