package generatecmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generation"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrServiceRequired is returned when a handler runs without a service.
var ErrServiceRequired = errors.New("generatecmd: generation service is required")

// GeneratePagesHandler runs template generation.
type GeneratePagesHandler struct {
	inner *commands.Handler[GeneratePagesCommand]
}

// NewGeneratePagesHandler constructs the handler. Generation runs are not
// bounded by the default command timeout.
func NewGeneratePagesHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[GeneratePagesCommand]) *GeneratePagesHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg GeneratePagesCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		req := generation.Request{
			Project:    msg.Project,
			TemplateID: msg.TemplateID,
			Sources:    msg.Sources,
			Refresh:    msg.Refresh,
			Status:     msg.Status,
			Progress:   msg.Progress,
		}
		run := service.Generate
		if msg.Regenerate {
			run = service.Regenerate
		}
		result, err := run(ctx, req)
		if msg.ResultCallback != nil && result != nil {
			msg.ResultCallback(result)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[GeneratePagesCommand]{
		commands.WithLogger[GeneratePagesCommand](baseLogger),
		commands.WithOperation[GeneratePagesCommand]("pages.generate"),
		commands.WithTimeout[GeneratePagesCommand](0),
		commands.WithMessageFields(func(msg GeneratePagesCommand) map[string]any {
			fields := map[string]any{
				"project_id":  msg.Project.ID.String(),
				"template_id": msg.TemplateID.String(),
				"sources":     len(msg.Sources),
			}
			if msg.Regenerate {
				fields["regenerate"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GeneratePagesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GeneratePagesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GeneratePagesCommand].
func (h *GeneratePagesHandler) Execute(ctx context.Context, msg GeneratePagesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// GenerateLocalSEOHandler runs the local-SEO matrix generator.
type GenerateLocalSEOHandler struct {
	inner *commands.Handler[GenerateLocalSEOCommand]
}

func NewGenerateLocalSEOHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[GenerateLocalSEOCommand]) *GenerateLocalSEOHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg GenerateLocalSEOCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		result, err := service.GenerateLocalSEO(ctx, generation.LocalSEORequest{
			Project:  msg.Project,
			Config:   msg.config(),
			Replace:  msg.Replace,
			Status:   msg.Status,
			Progress: msg.Progress,
		})
		if msg.ResultCallback != nil && result != nil {
			msg.ResultCallback(result)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[GenerateLocalSEOCommand]{
		commands.WithLogger[GenerateLocalSEOCommand](baseLogger),
		commands.WithOperation[GenerateLocalSEOCommand]("local_seo.generate"),
		commands.WithTimeout[GenerateLocalSEOCommand](0),
		commands.WithMessageFields(func(msg GenerateLocalSEOCommand) map[string]any {
			return map[string]any{
				"project_id": msg.Project.ID.String(),
				"replace":    msg.Replace,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateLocalSEOCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateLocalSEOHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateLocalSEOCommand].
func (h *GenerateLocalSEOHandler) Execute(ctx context.Context, msg GenerateLocalSEOCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClearLocalSEOHandler deletes local-SEO pages.
type ClearLocalSEOHandler struct {
	inner *commands.Handler[ClearLocalSEOCommand]
}

func NewClearLocalSEOHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ClearLocalSEOCommand]) *ClearLocalSEOHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ClearLocalSEOCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		deleted, err := service.ClearLocalSEO(ctx, msg.ProjectID, msg.Progress)
		if msg.DeletedCallback != nil {
			msg.DeletedCallback(deleted)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ClearLocalSEOCommand]{
		commands.WithLogger[ClearLocalSEOCommand](baseLogger),
		commands.WithOperation[ClearLocalSEOCommand]("local_seo.clear"),
		commands.WithTimeout[ClearLocalSEOCommand](0),
		commands.WithMessageFields(func(msg ClearLocalSEOCommand) map[string]any {
			return map[string]any{"project_id": msg.ProjectID.String()}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ClearLocalSEOCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearLocalSEOHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ClearLocalSEOCommand].
func (h *ClearLocalSEOHandler) Execute(ctx context.Context, msg ClearLocalSEOCommand) error {
	return h.inner.Execute(ctx, msg)
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
