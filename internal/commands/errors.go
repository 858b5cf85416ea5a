package commands

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/pages"
)

const (
	textCodeInvalidMessage = "SITEGEN_COMMAND_INVALID"
	textCodeCanceled       = "SITEGEN_COMMAND_CANCELED"
	textCodeTimeout        = "SITEGEN_COMMAND_TIMEOUT"
	textCodePartialWrite   = "SITEGEN_PARTIAL_WRITE"
	textCodeFailed         = "SITEGEN_COMMAND_FAILED"
)

// Metadata keys attached to partial write failures.
const (
	MetaPagesWritten = "pages_written"
	MetaPagesTotal   = "pages_total"
)

// invalidMessage reports a rejected command message. ozzo rule violations
// become one field error each so callers can point at the offending input.
func invalidMessage(err error) error {
	if err == nil {
		return nil
	}
	var rules validation.Errors
	if _, ok := goerrors.GetValidationErrors(err); !ok && errors.As(err, &rules) {
		return goerrors.FromOzzoValidation(rules, "command message is invalid").
			WithTextCode(textCodeInvalidMessage)
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command message is invalid").
		WithTextCode(textCodeInvalidMessage)
}

func interrupted(err error) error {
	if err == nil {
		return nil
	}
	if batch := partialWrite(err); batch != nil {
		return batch
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(textCodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
		WithTextCode(textCodeCanceled)
}

// failed tags a service error. Errors already carrying a category keep it,
// except batch failures, which always report how many pages were persisted.
func failed(err error) error {
	if err == nil {
		return nil
	}
	if batch := partialWrite(err); batch != nil {
		return batch
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(textCodeFailed)
}

// partialWrite converts a *pages.BatchError into a command error. Earlier
// batches stay persisted, so the written count travels in the metadata.
func partialWrite(err error) *goerrors.Error {
	var batch *pages.BatchError
	if !errors.As(err, &batch) {
		return nil
	}
	out := goerrors.New(
		fmt.Sprintf("generation stopped after %d of %d pages were written", batch.Written, batch.Total),
		goerrors.CategoryCommand,
	)
	out.Source = err
	return out.WithTextCode(textCodePartialWrite).WithMetadata(map[string]any{
		MetaPagesWritten: batch.Written,
		MetaPagesTotal:   batch.Total,
	})
}

// PagesWritten returns the number of pages persisted before a partial write
// failure stopped a command.
func PagesWritten(err error) (int, bool) {
	var tagged *goerrors.Error
	if !errors.As(err, &tagged) || tagged.TextCode != textCodePartialWrite {
		return 0, false
	}
	written, ok := tagged.Metadata[MetaPagesWritten].(int)
	return written, ok
}
