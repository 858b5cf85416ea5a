package expansion

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// Filter keeps the units that satisfy every rule.
func Filter(units []domain.Unit, rules []domain.FilterRule) []domain.Unit {
	if len(rules) == 0 {
		return units
	}
	kept := make([]domain.Unit, 0, len(units))
	for _, unit := range units {
		if Matches(unit, rules) {
			kept = append(kept, unit)
		}
	}
	return kept
}

// Matches reports whether unit satisfies all rules.
func Matches(unit domain.Unit, rules []domain.FilterRule) bool {
	for _, rule := range rules {
		if !matchRule(unit, rule) {
			return false
		}
	}
	return true
}

func matchRule(unit domain.Unit, rule domain.FilterRule) bool {
	targets := SplitList(rule.Value)
	if len(targets) == 0 {
		return true
	}
	test := func(value string) bool {
		return evaluate(rule.Operator, value, targets)
	}

	switch scopeOf(rule) {
	case domain.ScopeAny:
		for _, column := range unit.OrderedColumns() {
			if test(unit.Value(column)) {
				return true
			}
		}
		return false
	case domain.ScopeAll:
		for _, column := range unit.OrderedColumns() {
			if !test(unit.Value(column)) {
				return false
			}
		}
		return true
	default:
		return test(unit.Value(strings.TrimSpace(rule.Variable)))
	}
}

func scopeOf(rule domain.FilterRule) domain.MatchScope {
	if rule.MatchScope != "" {
		return rule.MatchScope
	}
	if strings.TrimSpace(rule.Variable) == "" {
		return domain.ScopeAny
	}
	return domain.ScopeSpecific
}

func evaluate(op domain.FilterOperator, value string, targets []string) bool {
	switch op {
	case domain.OperatorEquals:
		trimmed := strings.TrimSpace(value)
		for _, target := range targets {
			if trimmed == target {
				return true
			}
		}
		return false
	case domain.OperatorNotContains:
		return !containsAny(value, targets)
	default:
		return containsAny(value, targets)
	}
}

func containsAny(value string, targets []string) bool {
	lowered := strings.ToLower(value)
	for _, target := range targets {
		if strings.Contains(lowered, strings.ToLower(target)) {
			return true
		}
	}
	return false
}
