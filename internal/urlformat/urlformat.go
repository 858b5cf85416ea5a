// Package urlformat normalizes page URLs and archive paths for the supported
// URL conventions.
package urlformat

import (
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// DefaultDomain is used when a project has neither a custom domain nor a slug.
const DefaultDomain = "https://example.com"

// Formats lists the accepted url_format values.
var Formats = []domain.URLFormat{
	domain.URLPrettySlash,
	domain.URLPrettyNoSlash,
	domain.URLHTML,
	domain.URLDirectory,
}

// Valid reports whether format is one of the supported values.
func Valid(format domain.URLFormat) bool {
	for _, candidate := range Formats {
		if candidate == format {
			return true
		}
	}
	return false
}

// Parse converts a raw string into a URL format, rejecting unknown values.
// An empty value yields pretty_slash.
func Parse(raw string) (domain.URLFormat, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.URLPrettySlash, nil
	}
	format := domain.URLFormat(trimmed)
	if !Valid(format) {
		return "", fmt.Errorf("urlformat: unknown url format %q", raw)
	}
	return format, nil
}

// Clean strips surrounding slashes and any trailing .html, /index or
// /index.html from raw. Dot segments are resolved against the site root, so
// the result never climbs above it.
func Clean(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean != "" {
		clean = path.Clean("/" + clean)
	}
	clean = strings.Trim(clean, "/")
	for {
		switch {
		case clean == "index" || clean == "index.html":
			clean = ""
		case strings.HasSuffix(clean, "/index.html"):
			clean = strings.TrimSuffix(clean, "/index.html")
		case strings.HasSuffix(clean, "/index"):
			clean = strings.TrimSuffix(clean, "/index")
		case strings.HasSuffix(clean, ".html"):
			clean = strings.TrimSuffix(clean, ".html")
		default:
			return strings.Trim(clean, "/")
		}
		clean = strings.Trim(clean, "/")
	}
}

// FormatURL rewrites raw into the trailing form required by format.
// Unknown formats behave like pretty_slash.
func FormatURL(raw string, format domain.URLFormat) string {
	clean := Clean(raw)
	switch format {
	case domain.URLPrettyNoSlash:
		return "/" + clean
	case domain.URLHTML:
		if clean == "" {
			return "/index.html"
		}
		return "/" + clean + ".html"
	case domain.URLDirectory:
		if clean == "" {
			return "/index.html"
		}
		return "/" + clean + "/index.html"
	default:
		if clean == "" {
			return "/"
		}
		return "/" + clean + "/"
	}
}

// OutputPath maps a stored url path to its archive-relative file path.
func OutputPath(raw string, format domain.URLFormat) string {
	clean := Clean(raw)
	if clean == "" {
		return "index.html"
	}
	if format == domain.URLHTML {
		return clean + ".html"
	}
	return clean + "/index.html"
}

// ResolveDomain returns the https origin used for canonical links and
// sitemaps.
func ResolveDomain(customDomain, projectSlug string) string {
	if custom := strings.TrimSpace(customDomain); custom != "" {
		custom = strings.TrimPrefix(custom, "https://")
		custom = strings.TrimPrefix(custom, "http://")
		return "https://" + strings.TrimRight(custom, "/")
	}
	if slug := strings.TrimSpace(projectSlug); slug != "" {
		return "https://" + slug + ".com"
	}
	return DefaultDomain
}

// ProjectDomain resolves the domain for a project record.
func ProjectDomain(project domain.Project) string {
	return ResolveDomain(project.Export.CustomDomain, project.Slug)
}
