package expansion

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/placeholder"
)

// SlugToken is always accepted in url patterns.
const SlugToken = "slug"

// RequireRows fails when the table holds no rows.
func RequireRows(table domain.Table) error {
	if table.Len() == 0 {
		return inputError(ErrNoRows, textCodeNoRows, "no data rows available for generation")
	}
	return nil
}

// ValidateConfig checks mode specific settings and filter rules against the
// available columns.
func ValidateConfig(cfg Config, columns []string) error {
	known := columnSet(columns)
	var err error
	switch mode(cfg) {
	case domain.ModeNormal:
	case domain.ModeSplit:
		err = validateSplit(cfg.SplitColumn, known)
	case domain.ModeCombo:
		err = validateCombo(cfg.ComboColumns, known)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
	if err == nil {
		err = ValidateFilters(cfg.Filters)
	}
	return inputError(err, textCodeInvalidTemplate, "invalid template configuration")
}

func validateSplit(column string, known map[string]struct{}) error {
	column = strings.TrimSpace(column)
	if column == "" {
		return ErrSplitColumnRequired
	}
	if _, ok := known[column]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return nil
}

func validateCombo(columns []string, known map[string]struct{}) error {
	if len(columns) != 2 {
		return fmt.Errorf("%w: got %d", ErrComboColumns, len(columns))
	}
	for _, column := range columns {
		if _, ok := known[column]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
		}
	}
	if columns[0] == columns[1] {
		return fmt.Errorf("%w: columns must differ", ErrComboColumns)
	}
	return nil
}

// ValidateFilters checks operators and scopes of every rule.
func ValidateFilters(rules []domain.FilterRule) error {
	for i, rule := range rules {
		if err := ValidateFilter(rule); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidFilter, i, err)
		}
	}
	return nil
}

// ValidateFilter validates a single rule.
func ValidateFilter(rule domain.FilterRule) error {
	return validation.ValidateStruct(&rule,
		validation.Field(&rule.Operator, validation.Required, validation.In(
			domain.OperatorContains, domain.OperatorEquals, domain.OperatorNotContains,
		)),
		validation.Field(&rule.MatchScope, validation.In(
			domain.ScopeAny, domain.ScopeAll, domain.ScopeSpecific,
		)),
		validation.Field(&rule.Variable, validation.By(func(value any) error {
			if rule.MatchScope == domain.ScopeSpecific && strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("sitegen.filter.variable_required", "variable is required for specific scope")
			}
			return nil
		})),
	)
}

// ValidatePattern ensures every {{token}} in pattern names a known column or
// the computed slug.
func ValidatePattern(pattern string, columns []string) error {
	known := columnSet(columns)
	for _, token := range placeholder.Tokens(pattern) {
		if token == SlugToken {
			continue
		}
		if _, ok := known[token]; !ok {
			return inputError(fmt.Errorf("%w: {{%s}}", ErrUnknownToken, token), textCodeInvalidTemplate, "invalid url pattern")
		}
	}
	return nil
}

// ValidateTemplate runs every pre-write check for tpl against table.
func ValidateTemplate(tpl *domain.Template, table domain.Table) error {
	if err := RequireRows(table); err != nil {
		return err
	}
	columns := Columns(table)
	if err := ValidateConfig(ConfigFromTemplate(tpl), columns); err != nil {
		return err
	}
	if tpl == nil {
		return nil
	}
	return ValidatePattern(tpl.URLPattern, columns)
}

func columnSet(columns []string) map[string]struct{} {
	set := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		set[column] = struct{}{}
	}
	return set
}
