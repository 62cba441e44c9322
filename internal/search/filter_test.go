package search

import (
	"strings"
	"testing"
)

func TestBuildConditionsDefault(t *testing.T) {
	conditions, args := PlaceFilter{}.BuildConditions()

	if !strings.Contains(conditions, "p.status = ?") {
		t.Errorf("expected published filter, got %q", conditions)
	}
	if !strings.Contains(conditions, "p.price_min >= ?") {
		t.Errorf("expected lower band bound, got %q", conditions)
	}
	if strings.Contains(conditions, "p.price_max") {
		t.Errorf("zero PriceMax should be unbounded above, got %q", conditions)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d: %v", len(args), args)
	}
	if args[0] != "published" {
		t.Errorf("expected published status arg, got %v", args[0])
	}
	if args[1] != 0 {
		t.Errorf("expected zero PriceMin arg, got %v", args[1])
	}
}

func TestBuildConditionsBandContainment(t *testing.T) {
	conditions, args := PlaceFilter{PriceMin: 5000, PriceMax: 20000}.BuildConditions()

	// The place's own band must lie inside the requested band, so the
	// place minimum is bounded below and the place maximum above.
	if !strings.Contains(conditions, "p.price_min >= ?") {
		t.Errorf("expected price_min >= bound, got %q", conditions)
	}
	if !strings.Contains(conditions, "p.price_max <= ?") {
		t.Errorf("expected price_max <= bound, got %q", conditions)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d: %v", len(args), args)
	}
	if args[1] != 5000 || args[2] != 20000 {
		t.Errorf("expected band args 5000/20000, got %v", args)
	}
}

func TestBuildConditionsTerm(t *testing.T) {
	conditions, args := PlaceFilter{Term: "Brochette"}.BuildConditions()

	for _, column := range []string{"p.title", "p.localisation", "p.bio", "p.content"} {
		if !strings.Contains(conditions, "LOWER("+column+") LIKE ?") {
			t.Errorf("expected substring match on %s, got %q", column, conditions)
		}
	}
	if !strings.Contains(conditions, "pk.keyword = ?") {
		t.Errorf("expected exact keyword match, got %q", conditions)
	}

	// 2 base args + 4 lowered LIKE patterns + 1 raw keyword term.
	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d: %v", len(args), args)
	}
	for _, arg := range args[2:6] {
		if arg != "%brochette%" {
			t.Errorf("expected lowered LIKE pattern, got %v", arg)
		}
	}
	if args[6] != "Brochette" {
		t.Errorf("keyword arg must keep the raw term, got %v", args[6])
	}
}

func TestBuildConditionsBlankTermSkipped(t *testing.T) {
	conditions, _ := PlaceFilter{Term: "   "}.BuildConditions()
	if strings.Contains(conditions, "LIKE") {
		t.Errorf("blank term must not add a predicate, got %q", conditions)
	}
}

func TestBuildConditionsPriceTier(t *testing.T) {
	conditions, args := PlaceFilter{PriceInDollars: 2}.BuildConditions()
	if !strings.Contains(conditions, "p.price_in_dollars >= ?") {
		t.Errorf("expected tier predicate, got %q", conditions)
	}
	if args[len(args)-1] != 2 {
		t.Errorf("expected tier arg 2, got %v", args)
	}

	conditions, _ = PlaceFilter{}.BuildConditions()
	if strings.Contains(conditions, "price_in_dollars") {
		t.Errorf("zero tier must not add a predicate, got %q", conditions)
	}
}

func TestBuildConditionsMenus(t *testing.T) {
	conditions, args := PlaceFilter{MenuIDs: []int64{3, 7}}.BuildConditions()

	if !strings.Contains(conditions, "pm.menu_id IN (?, ?)") {
		t.Errorf("expected menu IN predicate, got %q", conditions)
	}
	if args[len(args)-2] != int64(3) || args[len(args)-1] != int64(7) {
		t.Errorf("expected menu id args, got %v", args)
	}
}

func TestBuildConditionsCombinedWithAnd(t *testing.T) {
	conditions, _ := PlaceFilter{Term: "x", PriceMax: 10, MenuIDs: []int64{1}}.BuildConditions()
	if strings.Count(conditions, " AND ") < 3 {
		t.Errorf("expected AND combination of predicates, got %q", conditions)
	}
}

func TestOrderClause(t *testing.T) {
	if got := OrderClause(OrderNewest); got != "p.created_at DESC" {
		t.Errorf("OrderClause(OrderNewest) = %q", got)
	}
	if got := OrderClause(OrderTopRated); got != "p.rating DESC" {
		t.Errorf("OrderClause(OrderTopRated) = %q", got)
	}
}

func TestBuildAutocompleteConditions(t *testing.T) {
	conditions, args := BuildAutocompleteConditions("Tana")

	if !strings.Contains(conditions, "LOWER(p.title) LIKE ?") {
		t.Errorf("expected title match, got %q", conditions)
	}
	if !strings.Contains(conditions, "LOWER(p.localisation) LIKE ?") {
		t.Errorf("expected localisation match, got %q", conditions)
	}
	if strings.Contains(conditions, "status") {
		t.Errorf("autocomplete must not filter on status, got %q", conditions)
	}
	if strings.Contains(conditions, "bio") || strings.Contains(conditions, "content") || strings.Contains(conditions, "keyword") {
		t.Errorf("autocomplete must only match title and localisation, got %q", conditions)
	}
	if len(args) != 2 || args[0] != "%tana%" || args[1] != "%tana%" {
		t.Errorf("expected two lowered patterns, got %v", args)
	}
}

func TestAutocompleteLimit(t *testing.T) {
	if AutocompleteLimit != 10 {
		t.Errorf("AutocompleteLimit = %d, want 10", AutocompleteLimit)
	}
}
