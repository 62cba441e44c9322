package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"tiakaly/internal/search"
	"tiakaly/internal/service"
)

// SearchHandler handles public search endpoints
type SearchHandler struct {
	placeService *service.PlaceService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(placeService *service.PlaceService) *SearchHandler {
	return &SearchHandler{placeService: placeService}
}

// Search handles GET /api/search with the full filter:
// q, priceMin, priceMax, priceInDollars, menus (comma-separated ids), sort.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := search.PlaceFilter{
		Term:           query.Get("q"),
		PriceMin:       parseIntParam(query.Get("priceMin")),
		PriceMax:       parseIntParam(query.Get("priceMax")),
		PriceInDollars: parseIntParam(query.Get("priceInDollars")),
		MenuIDs:        parseMenuIDs(query.Get("menus")),
	}

	order := search.OrderNewest
	if query.Get("sort") == "rating" {
		order = search.OrderTopRated
	}

	summaries, err := h.placeService.Search(filter, order)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Search failed", err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// Autocomplete handles GET /api/places/search for typeahead suggestions
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.placeService.Autocomplete(r.URL.Query().Get("q"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Autocomplete failed", err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// parseIntParam parses a query integer, treating absent or invalid as zero
func parseIntParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseMenuIDs parses a comma-separated id list, skipping invalid entries
func parseMenuIDs(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
