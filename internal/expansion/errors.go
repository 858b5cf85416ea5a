package expansion

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrNoRows              = errors.New("expansion: no data rows available")
	ErrUnknownMode         = errors.New("expansion: unknown generation mode")
	ErrSplitColumnRequired = errors.New("expansion: split column is required in split mode")
	ErrComboColumns        = errors.New("expansion: combo mode requires exactly two columns")
	ErrUnknownColumn       = errors.New("expansion: column does not exist in the data source")
	ErrUnknownToken        = errors.New("expansion: url pattern references an unknown column")
	ErrInvalidFilter       = errors.New("expansion: invalid filter rule")
)

const (
	textCodeInvalidTemplate = "EXPANSION_INVALID_TEMPLATE"
	textCodeNoRows          = "EXPANSION_NO_ROWS"
)

func inputError(err error, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}
