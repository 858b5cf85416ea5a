package logging

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "sitegen.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModuleField(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = GenerationLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != generationModule {
		t.Fatalf("expected module %s, got %v", generationModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != generationModule {
		t.Fatalf("expected module field %s, got %v", generationModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithRunContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithRunContext(rec, "p1", " ", "export")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldProjectID] != "p1" || got[fieldOperation] != "export" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldTemplateID]; ok {
		t.Fatalf("expected blank template id to be skipped, got %v", got)
	}
}

func TestWithFieldsDropsEmptyIdentifiers(t *testing.T) {
	rec := &recordingLogger{}
	projectID := uuid.New()
	var missing *uuid.UUID

	_ = WithFields(rec, map[string]any{
		"project_id":  projectID,
		"template_id": uuid.Nil,
		"page_id":     missing,
		"slug":        "  /guides/  ",
		"error":       nil,
		"pages":       0,
	})

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if len(got) != 3 {
		t.Fatalf("expected project_id, slug and pages only, got %v", got)
	}
	if got["project_id"] != projectID || got["slug"] != "/guides/" || got["pages"] != 0 {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestWithFieldsSkipsCallWhenNothingRemains(t *testing.T) {
	rec := &recordingLogger{}
	logger := WithFields(rec, map[string]any{"template_id": uuid.Nil, "operation": ""})
	if logger != interfaces.Logger(rec) {
		t.Fatalf("expected the original logger back")
	}
	if len(rec.fields) != 0 {
		t.Fatalf("expected no WithFields call, got %v", rec.fields)
	}
}
