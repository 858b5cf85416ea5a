package logging

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	rootModule       = "sitegen"
	generationModule = "sitegen.generation"
	exportModule     = "sitegen.export"
	datasourceModule = "sitegen.datasource"
)

const (
	fieldProjectID  = "project_id"
	fieldTemplateID = "template_id"
	fieldOperation  = "operation"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GenerationLogger returns the logger namespace reserved for page generation runs.
func GenerationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generationModule)
}

// ExportLogger returns the logger namespace reserved for static exports.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// DataSourceLogger returns the logger namespace reserved for data source loading.
func DataSourceLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, datasourceModule)
}

// WithRunContext enriches the logger with the identifiers of a generation or
// export run. Empty values are ignored.
func WithRunContext(logger interfaces.Logger, projectID, templateID, operation string) interfaces.Logger {
	return WithFields(logger, map[string]any{
		fieldProjectID:  projectID,
		fieldTemplateID: templateID,
		fieldOperation:  operation,
	})
}

// WithFields attaches fields when the logger implements FieldsLogger. Empty
// values are dropped and strings trimmed, so a run without a template never
// logs an empty template_id.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	kept := make(map[string]any, len(fields))
	for key, value := range fields {
		if value, ok := fieldValue(value); ok {
			kept[key] = value
		}
	}
	if len(kept) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(kept)
}

func fieldValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v == nil || *v == uuid.Nil {
			return nil, false
		}
		return *v, true
	default:
		return value, true
	}
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
