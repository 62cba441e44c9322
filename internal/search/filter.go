// Package search translates place filter parameters into SQL predicates.
// The builders are pure: they return a WHERE fragment with ? placeholders
// plus the matching args, and repositories compose the full statement.
package search

import (
	"fmt"
	"strings"

	"tiakaly/internal/models"
)

// Order selects the result ordering for a place search
type Order int

const (
	// OrderNewest sorts by creation time, newest first (default)
	OrderNewest Order = iota
	// OrderTopRated sorts by rating, best first
	OrderTopRated
)

// AutocompleteLimit caps the lightweight places/search variant
const AutocompleteLimit = 10

// PlaceFilter represents one search request. The zero value (no term,
// zero bounds) matches every published place.
type PlaceFilter struct {
	// Term is matched case-insensitively as a substring of title,
	// localisation, bio and content, and as an exact element of the
	// place's keyword set.
	Term string

	// PriceMin and PriceMax bound the place's own price band: a place
	// matches only when its entire band lies within [PriceMin, PriceMax].
	// PriceMax <= 0 means unbounded above.
	PriceMin int
	PriceMax int

	// PriceInDollars, when positive, requires the place's currency tier
	// to be at least this value.
	PriceInDollars int

	// MenuIDs, when non-empty, requires the place to be linked to at
	// least one of these menus.
	MenuIDs []int64
}

// BuildConditions returns the WHERE fragment (conditions joined with AND,
// without the WHERE keyword) and its arguments. The places table must be
// aliased as p.
func (f PlaceFilter) BuildConditions() (string, []interface{}) {
	conditions := []string{"p.status = ?"}
	args := []interface{}{models.PlaceStatusPublished}

	// Band containment, not overlap: the place's own price band must fall
	// within the requested band.
	conditions = append(conditions, "p.price_min >= ?")
	args = append(args, f.PriceMin)
	if f.PriceMax > 0 {
		conditions = append(conditions, "p.price_max <= ?")
		args = append(args, f.PriceMax)
	}

	if term := strings.TrimSpace(f.Term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		conditions = append(conditions, `(
			LOWER(p.title) LIKE ?
			OR LOWER(p.localisation) LIKE ?
			OR LOWER(p.bio) LIKE ?
			OR LOWER(p.content) LIKE ?
			OR EXISTS (SELECT 1 FROM place_keywords pk WHERE pk.place_id = p.id AND pk.keyword = ?)
		)`)
		// Keywords match as exact elements, not substrings.
		args = append(args, like, like, like, like, term)
	}

	if f.PriceInDollars > 0 {
		conditions = append(conditions, "p.price_in_dollars >= ?")
		args = append(args, f.PriceInDollars)
	}

	if len(f.MenuIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.MenuIDs)), ", ")
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM place_menus pm WHERE pm.place_id = p.id AND pm.menu_id IN (%s))",
			placeholders,
		))
		for _, id := range f.MenuIDs {
			args = append(args, id)
		}
	}

	return strings.Join(conditions, " AND "), args
}

// OrderClause returns the ORDER BY expression for the given ordering
func OrderClause(order Order) string {
	if order == OrderTopRated {
		return "p.rating DESC"
	}
	return "p.created_at DESC"
}

// BuildAutocompleteConditions returns the predicate for the lightweight
// autocomplete variant: title or localisation substring match only.
// Unlike the main search it carries no published-status restriction, so
// typeahead also surfaces drafts.
func BuildAutocompleteConditions(term string) (string, []interface{}) {
	like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return "(LOWER(p.title) LIKE ? OR LOWER(p.localisation) LIKE ?)",
		[]interface{}{like, like}
}
