package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tiakaly/internal/models"
	"tiakaly/internal/repository"
	"tiakaly/internal/search"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrInvalidPlace  = errors.New("invalid place")
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// PlaceService handles place business logic: CRUD with slug generation,
// publication state and public search
type PlaceService struct {
	placeRepo *repository.PlaceRepository
}

func NewPlaceService(placeRepo *repository.PlaceRepository) *PlaceService {
	return &PlaceService{placeRepo: placeRepo}
}

// Slugify turns a title into a URL slug
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreatePlace validates, assigns a unique slug and persists a new place
func (s *PlaceService) CreatePlace(place *models.Place) (*models.Place, error) {
	if strings.TrimSpace(place.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlace)
	}
	if place.PriceMin > place.PriceMax && place.PriceMax != 0 {
		return nil, fmt.Errorf("%w: price band is inverted", ErrInvalidPlace)
	}
	if place.Status == "" {
		place.Status = models.PlaceStatusDraft
	}
	if place.Status != models.PlaceStatusDraft && place.Status != models.PlaceStatusPublished {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPlace, place.Status)
	}

	slug, err := s.availableSlug(Slugify(place.Title), 0)
	if err != nil {
		return nil, err
	}
	place.Slug = slug

	return s.placeRepo.CreatePlace(place)
}

// UpdatePlace updates an existing place. The slug follows the title unless
// the new slug is already taken by another place.
func (s *PlaceService) UpdatePlace(place *models.Place) (*models.Place, error) {
	if place.ID == 0 {
		return nil, ErrPlaceNotFound
	}
	if strings.TrimSpace(place.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlace)
	}
	if place.Status != models.PlaceStatusDraft && place.Status != models.PlaceStatusPublished {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPlace, place.Status)
	}

	slug, err := s.availableSlug(Slugify(place.Title), place.ID)
	if err != nil {
		return nil, err
	}
	place.Slug = slug

	if err := s.placeRepo.UpdatePlace(place); err != nil {
		if isNoRows(err) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return s.placeRepo.GetPlaceByID(place.ID)
}

// DeletePlace removes a place and its relations
func (s *PlaceService) DeletePlace(id int64) error {
	return s.placeRepo.DeletePlace(id)
}

// GetPlace returns a place by id for the back-office, any status
func (s *PlaceService) GetPlace(id int64) (*models.Place, error) {
	place, err := s.placeRepo.GetPlaceByID(id)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

// GetPublishedPlace returns a published place by slug for the public site.
// Drafts stay invisible even when the slug is known.
func (s *PlaceService) GetPublishedPlace(slug string) (*models.Place, error) {
	place, err := s.placeRepo.GetPlaceBySlug(slug)
	if err != nil {
		return nil, err
	}
	if place == nil || !place.IsPublished() {
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

// ListPlaces returns every place, newest first, for the back-office
func (s *PlaceService) ListPlaces() ([]models.Place, error) {
	return s.placeRepo.GetAllPlaces()
}

// Search returns published place summaries matching the filter
func (s *PlaceService) Search(filter search.PlaceFilter, order search.Order) ([]models.PlaceSummary, error) {
	return s.placeRepo.SearchSummaries(filter, order)
}

// Autocomplete returns summaries matching q on title or localisation only,
// capped to a short list for typeahead
func (s *PlaceService) Autocomplete(q string) ([]models.PlaceSummary, error) {
	if strings.TrimSpace(q) == "" {
		return []models.PlaceSummary{}, nil
	}
	return s.placeRepo.AutocompleteSummaries(q)
}

// availableSlug finds a free slug, suffixing a counter on collisions.
// selfID exempts the place's own row so updates keep a stable slug.
func (s *PlaceService) availableSlug(base string, selfID int64) (string, error) {
	if base == "" {
		base = "place"
	}
	candidate := base
	for i := 2; ; i++ {
		existing, err := s.placeRepo.GetPlaceBySlug(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if existing == nil || existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
