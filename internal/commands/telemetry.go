package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// TelemetryStatus classifies how a command run ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
	// TelemetryStatusPartialWrite marks generation runs that persisted some
	// batches before failing.
	TelemetryStatusPartialWrite TelemetryStatus = "partial_write"
)

// TelemetryInfo describes a command execution outcome.
type TelemetryInfo struct {
	Command      string
	Operation    string
	Fields       map[string]any
	Duration     time.Duration
	Error        error
	Status       TelemetryStatus
	TextCode     string
	PagesWritten int
	Logger       interfaces.Logger
}

// Telemetry is invoked after every command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one "command.execute.<status>" entry per run.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields).WithContext(ctx)
		entry = logging.WithFields(entry, map[string]any{
			"duration_ms": info.Duration.Milliseconds(),
			"text_code":   info.TextCode,
		})
		msg := "command.execute." + string(info.Status)
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info(msg)
		case TelemetryStatusPartialWrite:
			entry.Warn(msg, "pages_written", info.PagesWritten, "error", info.Error)
		default:
			entry.Error(msg, "error", info.Error)
		}
	}
}

// outcome classifies a tagged execution error.
func outcome(err error, status TelemetryStatus) TelemetryInfo {
	info := TelemetryInfo{Error: err, Status: status}
	if err == nil {
		return info
	}
	var tagged *goerrors.Error
	if errors.As(err, &tagged) {
		info.TextCode = tagged.TextCode
	}
	if written, ok := PagesWritten(err); ok {
		info.Status = TelemetryStatusPartialWrite
		info.PagesWritten = written
	}
	return info
}
