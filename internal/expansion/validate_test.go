package expansion

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func TestValidatePatternRejectsUnknownColumns(t *testing.T) {
	columns := []string{"title", "city"}
	if err := ValidatePattern("/{{city}}/{{slug}}", columns); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidatePattern("/{{state}}/{{slug}}", columns)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected unknown token error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateTemplateRequiresRows(t *testing.T) {
	err := ValidateTemplate(&domain.Template{URLPattern: "/{{slug}}"}, domain.Table{Columns: []string{"title"}})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected no rows error, got %v", err)
	}
}

func TestValidateFilterRequiresVariableForSpecificScope(t *testing.T) {
	err := ValidateFilter(domain.FilterRule{Operator: domain.OperatorEquals, Value: "x", MatchScope: domain.ScopeSpecific})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if err := ValidateFilter(domain.FilterRule{Operator: domain.OperatorEquals, Value: "x"}); err != nil {
		t.Fatalf("unexpected error for default scope: %v", err)
	}
}
