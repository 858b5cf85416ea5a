package expansion

import (
	"testing"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func unit(values domain.Row, columns ...string) domain.Unit {
	return domain.Unit{Values: values, Columns: columns}
}

func TestSpecificContainsUsesOrList(t *testing.T) {
	rule := domain.FilterRule{Variable: "category", Operator: domain.OperatorContains, Value: "tech,design", MatchScope: domain.ScopeSpecific}
	kept := Filter([]domain.Unit{
		unit(domain.Row{"category": "technology"}, "category"),
		unit(domain.Row{"category": "finance"}, "category"),
		unit(domain.Row{"category": "Web DESIGN"}, "category"),
	}, []domain.FilterRule{rule})
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept units, got %d", len(kept))
	}
	if kept[0].Value("category") != "technology" || kept[1].Value("category") != "Web DESIGN" {
		t.Fatalf("unexpected kept units %+v", kept)
	}
}

func TestOperators(t *testing.T) {
	u := unit(domain.Row{"city": " Paris ", "country": "France"}, "city", "country")
	cases := []struct {
		name string
		rule domain.FilterRule
		want bool
	}{
		{"equals trimmed", domain.FilterRule{Variable: "city", Operator: domain.OperatorEquals, Value: "Paris", MatchScope: domain.ScopeSpecific}, true},
		{"equals is case sensitive", domain.FilterRule{Variable: "city", Operator: domain.OperatorEquals, Value: "paris", MatchScope: domain.ScopeSpecific}, false},
		{"not contains", domain.FilterRule{Variable: "city", Operator: domain.OperatorNotContains, Value: "lyon, nice", MatchScope: domain.ScopeSpecific}, true},
		{"not contains hit", domain.FilterRule{Variable: "city", Operator: domain.OperatorNotContains, Value: "PAR", MatchScope: domain.ScopeSpecific}, false},
		{"any scope", domain.FilterRule{Operator: domain.OperatorContains, Value: "fran", MatchScope: domain.ScopeAny}, true},
		{"all scope fails", domain.FilterRule{Operator: domain.OperatorContains, Value: "fran", MatchScope: domain.ScopeAll}, false},
		{"all scope passes", domain.FilterRule{Operator: domain.OperatorContains, Value: "a", MatchScope: domain.ScopeAll}, true},
		{"empty list passes", domain.FilterRule{Variable: "city", Operator: domain.OperatorEquals, Value: " , ", MatchScope: domain.ScopeSpecific}, true},
		{"missing column", domain.FilterRule{Variable: "zip", Operator: domain.OperatorContains, Value: "75", MatchScope: domain.ScopeSpecific}, false},
	}
	for _, tc := range cases {
		if got := Matches(u, []domain.FilterRule{tc.rule}); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRulesAreAnded(t *testing.T) {
	u := unit(domain.Row{"a": "alpha", "b": "beta"}, "a", "b")
	rules := []domain.FilterRule{
		{Variable: "a", Operator: domain.OperatorContains, Value: "alp", MatchScope: domain.ScopeSpecific},
		{Variable: "b", Operator: domain.OperatorContains, Value: "zzz", MatchScope: domain.ScopeSpecific},
	}
	if Matches(u, rules) {
		t.Fatalf("expected unit to fail the second rule")
	}
}

func TestAllScopeOverNoColumnsPasses(t *testing.T) {
	rule := domain.FilterRule{Operator: domain.OperatorEquals, Value: "x", MatchScope: domain.ScopeAll}
	if !Matches(unit(domain.Row{}), []domain.FilterRule{rule}) {
		t.Fatalf("expected all scope to pass on empty unit")
	}
}
