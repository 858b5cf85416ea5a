package exportcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/export"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var ErrPageSourceRequired = errors.New("exportcmd: page source is required")

// ExportSiteHandler serializes a project's pages.
type ExportSiteHandler struct {
	inner *commands.Handler[ExportSiteCommand]
}

// NewExportSiteHandler constructs the handler. A nil exporter falls back to
// export.NewExporter with default settings.
func NewExportSiteHandler(source PageSource, exporter *export.Exporter, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSiteCommand]) *ExportSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}
	if exporter == nil {
		exporter = export.NewExporter(export.WithLogger(baseLogger))
	}

	exec := func(ctx context.Context, msg ExportSiteCommand) error {
		if source == nil {
			return ErrPageSourceRequired
		}
		records, err := source.ListPages(ctx, msg.Project.ID)
		if err != nil {
			return err
		}

		result := Result{Kind: msg.kind(), Pages: len(records)}
		switch result.Kind {
		case KindData:
			result.Name = export.DataFileName(msg.Project)
			err = export.WriteData(msg.Output, records)
		case KindSitemaps:
			result.Bundle, err = exporter.SitemapArchive(ctx, msg.Output, records, msg.Project)
			result.Name = export.SitemapArchiveName(msg.Project.Export)
		default:
			result.Bundle, err = exporter.Archive(ctx, msg.Output, records, msg.Project)
			result.Name = export.ArchiveName(msg.Project)
		}
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSiteCommand]{
		commands.WithLogger[ExportSiteCommand](baseLogger),
		commands.WithOperation[ExportSiteCommand]("site.export"),
		commands.WithTimeout[ExportSiteCommand](0),
		commands.WithMessageFields(func(msg ExportSiteCommand) map[string]any {
			return map[string]any{
				"project_id": msg.Project.ID.String(),
				"kind":       string(msg.kind()),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportSiteCommand].
func (h *ExportSiteHandler) Execute(ctx context.Context, msg ExportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
