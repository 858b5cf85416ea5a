package templates

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/expansion"
)

const textCodeInvalidTemplate = "TEMPLATE_INVALID"

// Validate checks the fields of tpl that do not depend on a data source.
// Column references are checked at generation time.
func Validate(tpl *domain.Template) error {
	if tpl == nil {
		return goerrors.New("template is required", goerrors.CategoryValidation).WithTextCode(textCodeInvalidTemplate)
	}
	err := validation.ValidateStruct(tpl,
		validation.Field(&tpl.Name, validation.Required),
		validation.Field(&tpl.HTMLContent, validation.Required),
		validation.Field(&tpl.GenerationMode, validation.In(domain.ModeNormal, domain.ModeSplit, domain.ModeCombo)),
		validation.Field(&tpl.SplitColumn, validation.When(tpl.GenerationMode == domain.ModeSplit, validation.Required)),
		validation.Field(&tpl.ComboColumns, validation.When(tpl.GenerationMode == domain.ModeCombo, validation.Required, validation.Length(2, 2))),
		validation.Field(&tpl.ContentFormat, validation.In(domain.ContentHTML, domain.ContentMarkdown)),
		validation.Field(&tpl.FilterRules, validation.By(func(any) error {
			return expansion.ValidateFilters(tpl.FilterRules)
		})),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid template").WithTextCode(textCodeInvalidTemplate)
	}
	return nil
}
