package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/cmd/sitegen/internal/bootstrap"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/commands/exportcmd"
	"github.com/goliatone/go-sitegen/internal/export"
	"github.com/goliatone/go-sitegen/internal/generation"
	"github.com/goliatone/go-sitegen/internal/manifest"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/storage"
	"github.com/goliatone/go-sitegen/internal/templates"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sitegen: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sitegen", flag.ContinueOnError)
	manifestPath := fs.String("manifest", "site.yaml", "Path to the project manifest")
	outDir := fs.String("out", "dist", "Directory receiving the export")
	kind := fs.String("kind", string(exportcmd.KindSite), "Export kind: site, sitemaps or data")
	extract := fs.Bool("extract", false, "Also write the site files into the output directory")
	envFile := fs.String("env", ".env", "Optional dotenv file")
	driver := fs.String("storage", "", "Storage driver override (memory, sqlite3, postgres)")
	dsn := fs.String("dsn", "", "Storage DSN override")
	logLevel := fs.String("log-level", "", "Log level")
	logFormat := fs.String("log-format", "", "Log format (json, console, pretty)")
	fetchTimeout := fs.Duration("fetch-timeout", 30*time.Second, "Timeout for remote data sources")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := bootstrap.LoadEnv(*envFile); err != nil {
		return err
	}

	doc, err := manifest.Load(*manifestPath)
	if err != nil {
		return err
	}
	plan, err := doc.Resolve(filepath.Dir(*manifestPath))
	if err != nil {
		return err
	}

	opts := bootstrap.Options{
		Storage:      storage.Config{Driver: *driver, DSN: *dsn},
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
		FetchTimeout: *fetchTimeout,
	}
	if strings.TrimSpace(opts.Storage.Driver) == "" {
		opts.Storage = doc.Storage
	}
	opts.ApplyEnv()

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	progress := progressPrinter(stdout, *quiet)

	for _, tpl := range plan.Templates {
		if _, err := templates.Save(ctx, module.Templates(), tpl); err != nil {
			return fmt.Errorf("save template %q: %w", tpl.Name, err)
		}
	}

	for _, job := range plan.Runs {
		var result *generation.Result
		err := module.GeneratePages().Execute(ctx, sitegen.GeneratePagesCommand{
			Project:        plan.Project,
			TemplateID:     job.Template.ID,
			Sources:        job.Sources,
			Regenerate:     true,
			Status:         job.Status,
			Progress:       progress,
			ResultCallback: func(r *generation.Result) { result = r },
		})
		if err != nil {
			if written, ok := commands.PagesWritten(err); ok {
				fmt.Fprintf(stdout, "template %s: %d pages kept from earlier batches\n", job.Template.Name, written)
			}
			return fmt.Errorf("generate %q: %w", job.Template.Name, err)
		}
		fmt.Fprintf(stdout, "template %s: %d pages written, %d replaced\n", job.Template.Name, result.Written, result.Deleted)
	}

	if plan.LocalSEO != nil {
		var result *generation.Result
		err := module.GenerateLocalSEO().Execute(ctx, sitegen.GenerateLocalSEOCommand{
			Project:        plan.Project,
			Config:         plan.LocalSEO.Config,
			Replace:        true,
			Status:         plan.LocalSEO.Status,
			Progress:       progress,
			ResultCallback: func(r *generation.Result) { result = r },
		})
		if err != nil {
			return fmt.Errorf("generate local seo: %w", err)
		}
		fmt.Fprintf(stdout, "local seo: %d pages written, %d replaced\n", result.Written, result.Deleted)
	}

	var buf bytes.Buffer
	var exported exportcmd.Result
	err = module.ExportSite().Execute(ctx, sitegen.ExportSiteCommand{
		Project:        plan.Project,
		Kind:           exportcmd.Kind(*kind),
		Output:         &buf,
		ResultCallback: func(r exportcmd.Result) { exported = r },
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(*outDir, exported.Name)
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	fmt.Fprintf(stdout, "exported %d pages to %s\n", exported.Pages, target)

	if *extract && exported.Bundle != nil {
		if err := export.WriteBundle(ctx, export.DirWriter{Root: *outDir}, exported.Bundle); err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		fmt.Fprintf(stdout, "extracted %d files to %s\n", exported.Bundle.Len(), *outDir)
	}
	return nil
}

func progressPrinter(w io.Writer, quiet bool) pages.ProgressFunc {
	if quiet {
		return nil
	}
	return func(p pages.Progress) {
		fmt.Fprintf(w, "  batch %d: %d/%d\n", p.Batch, p.Done, p.Total)
	}
}
