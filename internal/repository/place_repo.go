package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
	"tiakaly/internal/search"
)

// PlaceRepository handles database operations for places and their
// keyword/menu/contact relations
type PlaceRepository struct {
	db *database.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *database.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

const placeColumns = `p.id, p.title, p.slug, p.localisation, p.bio, p.content,
	p.latitude, p.longitude, p.price_min, p.price_max, p.price_in_dollars,
	p.rating, p.type, p.status, COALESCE(p.main_media_id, ''), p.created_at, p.updated_at`

func scanPlace(row interface{ Scan(...interface{}) error }) (*models.Place, error) {
	place := &models.Place{}
	err := row.Scan(
		&place.ID,
		&place.Title,
		&place.Slug,
		&place.Localisation,
		&place.Bio,
		&place.Content,
		&place.Latitude,
		&place.Longitude,
		&place.PriceMin,
		&place.PriceMax,
		&place.PriceInDollars,
		&place.Rating,
		&place.Type,
		&place.Status,
		&place.MainMediaID,
		&place.CreatedAt,
		&place.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return place, nil
}

// CreatePlace inserts a new place and its relations
func (r *PlaceRepository) CreatePlace(place *models.Place) (*models.Place, error) {
	query := `
		INSERT INTO places (title, slug, localisation, bio, content, latitude, longitude,
			price_min, price_max, price_in_dollars, rating, type, status, main_media_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		place.Title, place.Slug, place.Localisation, place.Bio, place.Content,
		place.Latitude, place.Longitude, place.PriceMin, place.PriceMax,
		place.PriceInDollars, place.Rating, place.Type, place.Status,
		nullIfEmpty(place.MainMediaID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	place.ID = id

	if err := r.ReplaceKeywords(id, place.Keywords); err != nil {
		return nil, err
	}
	if err := r.ReplaceMenus(id, menuIDs(place.Menus)); err != nil {
		return nil, err
	}
	if err := r.ReplaceContacts(id, place.Contacts); err != nil {
		return nil, err
	}
	if err := r.ReplaceGallery(id, mediaAssetIDs(place.Gallery)); err != nil {
		return nil, err
	}

	return place, nil
}

// UpdatePlace updates a place's fields and replaces its relations
func (r *PlaceRepository) UpdatePlace(place *models.Place) error {
	query := `
		UPDATE places
		SET title = ?, slug = ?, localisation = ?, bio = ?, content = ?,
			latitude = ?, longitude = ?, price_min = ?, price_max = ?,
			price_in_dollars = ?, rating = ?, type = ?, status = ?,
			main_media_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		place.Title, place.Slug, place.Localisation, place.Bio, place.Content,
		place.Latitude, place.Longitude, place.PriceMin, place.PriceMax,
		place.PriceInDollars, place.Rating, place.Type, place.Status,
		nullIfEmpty(place.MainMediaID), place.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if err := r.ReplaceKeywords(place.ID, place.Keywords); err != nil {
		return err
	}
	if err := r.ReplaceMenus(place.ID, menuIDs(place.Menus)); err != nil {
		return err
	}
	if err := r.ReplaceContacts(place.ID, place.Contacts); err != nil {
		return err
	}
	return r.ReplaceGallery(place.ID, mediaAssetIDs(place.Gallery))
}

// DeletePlace deletes a place; relations cascade via foreign keys
func (r *PlaceRepository) DeletePlace(id int64) error {
	if _, err := r.db.Exec("DELETE FROM places WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	return nil
}

// GetPlaceByID retrieves a place with its relations
func (r *PlaceRepository) GetPlaceByID(id int64) (*models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places p WHERE p.id = ?"
	place, err := scanPlace(r.db.QueryRow(query, id))
	if err != nil || place == nil {
		return place, err
	}
	if err := r.loadRelations(place); err != nil {
		return nil, err
	}
	return place, nil
}

// GetPlaceBySlug retrieves a place with its relations by slug
func (r *PlaceRepository) GetPlaceBySlug(slug string) (*models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places p WHERE p.slug = ?"
	place, err := scanPlace(r.db.QueryRow(query, slug))
	if err != nil || place == nil {
		return place, err
	}
	if err := r.loadRelations(place); err != nil {
		return nil, err
	}
	return place, nil
}

// GetAllPlaces retrieves every place regardless of status, newest first.
// Used by the admin back-office and the export tool.
func (r *PlaceRepository) GetAllPlaces() ([]models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places p ORDER BY p.created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}

	return places, rows.Err()
}

const summaryColumns = `p.id, p.title, p.localisation, p.latitude, p.longitude,
	p.price_min, p.price_max, p.price_in_dollars, p.rating, p.type,
	COALESCE(m.url, '')`

// SearchSummaries executes a place filter and projects the matches to
// summaries, relations included
func (r *PlaceRepository) SearchSummaries(filter search.PlaceFilter, order search.Order) ([]models.PlaceSummary, error) {
	conditions, args := filter.BuildConditions()
	query := fmt.Sprintf(`
		SELECT %s
		FROM places p
		LEFT JOIN media m ON m.id = p.main_media_id
		WHERE %s
		ORDER BY %s
	`, summaryColumns, conditions, search.OrderClause(order))

	return r.querySummaries(query, args)
}

// AutocompleteSummaries executes the lightweight places/search variant
func (r *PlaceRepository) AutocompleteSummaries(term string) ([]models.PlaceSummary, error) {
	conditions, args := search.BuildAutocompleteConditions(term)
	query := fmt.Sprintf(`
		SELECT %s
		FROM places p
		LEFT JOIN media m ON m.id = p.main_media_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT %d
	`, summaryColumns, conditions, search.AutocompleteLimit)

	return r.querySummaries(query, args)
}

func (r *PlaceRepository) querySummaries(query string, args []interface{}) ([]models.PlaceSummary, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}
	defer rows.Close()

	var summaries []models.PlaceSummary
	for rows.Next() {
		var s models.PlaceSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Localisation,
			&s.Latitude,
			&s.Longitude,
			&s.PriceMin,
			&s.PriceMax,
			&s.PriceInDollars,
			&s.Rating,
			&s.Type,
			&s.MainMediaURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan place summary: %w", err)
		}
		s.Keywords = []string{}
		s.Menus = []models.Menu{}
		s.Contacts = []models.Contact{}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadSummaryRelations(summaries); err != nil {
		return nil, err
	}

	return summaries, nil
}

// loadSummaryRelations fills keywords, menus and contacts for a page of
// summaries with one query per relation
func (r *PlaceRepository) loadSummaryRelations(summaries []models.PlaceSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	index := make(map[int64]*models.PlaceSummary, len(summaries))
	ids := make([]interface{}, 0, len(summaries))
	for i := range summaries {
		index[summaries[i].ID] = &summaries[i]
		ids = append(ids, summaries[i].ID)
	}
	marks := placeholders(len(ids))

	keywordRows, err := r.db.Query(
		"SELECT place_id, keyword FROM place_keywords WHERE place_id IN ("+marks+") ORDER BY keyword", ids...)
	if err != nil {
		return fmt.Errorf("failed to query keywords: %w", err)
	}
	defer keywordRows.Close()
	for keywordRows.Next() {
		var placeID int64
		var keyword string
		if err := keywordRows.Scan(&placeID, &keyword); err != nil {
			return fmt.Errorf("failed to scan keyword: %w", err)
		}
		if s, ok := index[placeID]; ok {
			s.Keywords = append(s.Keywords, keyword)
		}
	}
	if err := keywordRows.Err(); err != nil {
		return err
	}

	menuRows, err := r.db.Query(`
		SELECT pm.place_id, mn.id, mn.name
		FROM place_menus pm
		JOIN menus mn ON mn.id = pm.menu_id
		WHERE pm.place_id IN (`+marks+`)
		ORDER BY mn.name`, ids...)
	if err != nil {
		return fmt.Errorf("failed to query menus: %w", err)
	}
	defer menuRows.Close()
	for menuRows.Next() {
		var placeID int64
		var menu models.Menu
		if err := menuRows.Scan(&placeID, &menu.ID, &menu.Name); err != nil {
			return fmt.Errorf("failed to scan menu: %w", err)
		}
		if s, ok := index[placeID]; ok {
			s.Menus = append(s.Menus, menu)
		}
	}
	if err := menuRows.Err(); err != nil {
		return err
	}

	contactRows, err := r.db.Query(
		"SELECT id, place_id, kind, value FROM contacts WHERE place_id IN ("+marks+") ORDER BY id", ids...)
	if err != nil {
		return fmt.Errorf("failed to query contacts: %w", err)
	}
	defer contactRows.Close()
	for contactRows.Next() {
		var contact models.Contact
		if err := contactRows.Scan(&contact.ID, &contact.PlaceID, &contact.Kind, &contact.Value); err != nil {
			return fmt.Errorf("failed to scan contact: %w", err)
		}
		if s, ok := index[contact.PlaceID]; ok {
			s.Contacts = append(s.Contacts, contact)
		}
	}
	return contactRows.Err()
}

func (r *PlaceRepository) loadRelations(place *models.Place) error {
	keywordRows, err := r.db.Query(
		"SELECT keyword FROM place_keywords WHERE place_id = ? ORDER BY keyword", place.ID)
	if err != nil {
		return fmt.Errorf("failed to query keywords: %w", err)
	}
	defer keywordRows.Close()
	for keywordRows.Next() {
		var keyword string
		if err := keywordRows.Scan(&keyword); err != nil {
			return fmt.Errorf("failed to scan keyword: %w", err)
		}
		place.Keywords = append(place.Keywords, keyword)
	}
	if err := keywordRows.Err(); err != nil {
		return err
	}

	menuRows, err := r.db.Query(`
		SELECT mn.id, mn.name
		FROM place_menus pm
		JOIN menus mn ON mn.id = pm.menu_id
		WHERE pm.place_id = ?
		ORDER BY mn.name`, place.ID)
	if err != nil {
		return fmt.Errorf("failed to query menus: %w", err)
	}
	defer menuRows.Close()
	for menuRows.Next() {
		var menu models.Menu
		if err := menuRows.Scan(&menu.ID, &menu.Name); err != nil {
			return fmt.Errorf("failed to scan menu: %w", err)
		}
		place.Menus = append(place.Menus, menu)
	}
	if err := menuRows.Err(); err != nil {
		return err
	}

	contactRows, err := r.db.Query(
		"SELECT id, place_id, kind, value FROM contacts WHERE place_id = ? ORDER BY id", place.ID)
	if err != nil {
		return fmt.Errorf("failed to query contacts: %w", err)
	}
	defer contactRows.Close()
	for contactRows.Next() {
		var contact models.Contact
		if err := contactRows.Scan(&contact.ID, &contact.PlaceID, &contact.Kind, &contact.Value); err != nil {
			return fmt.Errorf("failed to scan contact: %w", err)
		}
		place.Contacts = append(place.Contacts, contact)
	}
	if err := contactRows.Err(); err != nil {
		return err
	}

	galleryRows, err := r.db.Query(`
		SELECT md.id, md.url, md.mime_type, md.size_bytes, md.alt_text, md.created_at
		FROM place_media pg
		JOIN media md ON md.id = pg.media_id
		WHERE pg.place_id = ?
		ORDER BY pg.position`, place.ID)
	if err != nil {
		return fmt.Errorf("failed to query gallery: %w", err)
	}
	defer galleryRows.Close()
	for galleryRows.Next() {
		var asset models.MediaAsset
		if err := galleryRows.Scan(&asset.ID, &asset.URL, &asset.MimeType, &asset.SizeBytes, &asset.AltText, &asset.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan gallery asset: %w", err)
		}
		place.Gallery = append(place.Gallery, asset)
	}
	return galleryRows.Err()
}

// ReplaceKeywords replaces a place's keyword set
func (r *PlaceRepository) ReplaceKeywords(placeID int64, keywords []string) error {
	if _, err := r.db.Exec("DELETE FROM place_keywords WHERE place_id = ?", placeID); err != nil {
		return fmt.Errorf("failed to clear keywords: %w", err)
	}
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if _, err := r.db.Exec(
			"INSERT INTO place_keywords (place_id, keyword) VALUES (?, ?)", placeID, keyword); err != nil {
			return fmt.Errorf("failed to add keyword: %w", err)
		}
	}
	return nil
}

// ReplaceMenus replaces a place's menu links
func (r *PlaceRepository) ReplaceMenus(placeID int64, menuIDs []int64) error {
	if _, err := r.db.Exec("DELETE FROM place_menus WHERE place_id = ?", placeID); err != nil {
		return fmt.Errorf("failed to clear menus: %w", err)
	}
	for _, menuID := range menuIDs {
		if _, err := r.db.Exec(
			"INSERT INTO place_menus (place_id, menu_id) VALUES (?, ?)", placeID, menuID); err != nil {
			return fmt.Errorf("failed to link menu: %w", err)
		}
	}
	return nil
}

// ReplaceContacts replaces a place's contact list
func (r *PlaceRepository) ReplaceContacts(placeID int64, contacts []models.Contact) error {
	if _, err := r.db.Exec("DELETE FROM contacts WHERE place_id = ?", placeID); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}
	for _, contact := range contacts {
		if _, err := r.db.Exec(
			"INSERT INTO contacts (place_id, kind, value) VALUES (?, ?, ?)",
			placeID, contact.Kind, contact.Value); err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}
	}
	return nil
}

// ReplaceGallery replaces a place's gallery, keeping the given order
func (r *PlaceRepository) ReplaceGallery(placeID int64, mediaIDs []string) error {
	if _, err := r.db.Exec("DELETE FROM place_media WHERE place_id = ?", placeID); err != nil {
		return fmt.Errorf("failed to clear gallery: %w", err)
	}
	for position, mediaID := range mediaIDs {
		if _, err := r.db.Exec(
			"INSERT INTO place_media (place_id, media_id, position) VALUES (?, ?, ?)",
			placeID, mediaID, position); err != nil {
			return fmt.Errorf("failed to add gallery asset: %w", err)
		}
	}
	return nil
}

func menuIDs(menus []models.Menu) []int64 {
	ids := make([]int64, 0, len(menus))
	for _, menu := range menus {
		ids = append(ids, menu.ID)
	}
	return ids
}

func mediaAssetIDs(assets []models.MediaAsset) []string {
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// placeholders returns "?, ?, ..." with n markers
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
