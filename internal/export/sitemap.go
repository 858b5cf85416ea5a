package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/slugs"
)

const (
	SitemapIndexPath    = "sitemap.xml"
	UncategorizedPath   = "sitemap-pages.xml"
	sitemapChangeFreq   = "weekly"
	sitemapPriority     = "0.8"
	sitemapDateLayout   = "2006-01-02"
	sitemapXMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// SitemapEntry is one <url> element.
type SitemapEntry struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   string
}

// SitemapFile is a generated sitemap document.
type SitemapFile struct {
	Path    string
	Entries []SitemapEntry
}

// SitemapCandidates returns the published pages when any exist, otherwise
// every page, capped at limit. The limit never exceeds domain.MaxSitemapURLs.
func SitemapCandidates(pages []*domain.Page, limit int) []*domain.Page {
	if limit <= 0 || limit > domain.MaxSitemapURLs {
		limit = domain.MaxSitemapURLs
	}
	var published []*domain.Page
	for _, page := range pages {
		if page != nil && page.Status == domain.StatusPublished {
			published = append(published, page)
		}
	}
	candidates := published
	if len(candidates) == 0 {
		candidates = make([]*domain.Page, 0, len(pages))
		for _, page := range pages {
			if page != nil {
				candidates = append(candidates, page)
			}
		}
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func sitemapEntry(baseURL string, page *domain.Page, fallback time.Time) SitemapEntry {
	path := strings.TrimSpace(page.URLPath)
	if path == "" {
		path = "/" + page.Slug
	}
	lastMod := page.UpdatedAt
	if lastMod.IsZero() {
		lastMod = fallback
	}
	return SitemapEntry{
		Loc:        baseURL + path,
		LastMod:    lastMod.UTC().Format(sitemapDateLayout),
		ChangeFreq: sitemapChangeFreq,
		Priority:   sitemapPriority,
	}
}

// PartitionSitemaps groups candidates by category. Categories map to
// sitemap-{slug}.xml in slug order; uncategorized pages go to
// sitemap-pages.xml, which is also the sole file when no category exists.
func PartitionSitemaps(baseURL string, candidates []*domain.Page, fallback time.Time) []SitemapFile {
	byCategory := map[string][]SitemapEntry{}
	var uncategorized []SitemapEntry
	for _, page := range candidates {
		entry := sitemapEntry(baseURL, page, fallback)
		key := slugs.Slugify(page.Category())
		if key == "" {
			uncategorized = append(uncategorized, entry)
			continue
		}
		byCategory[key] = append(byCategory[key], entry)
	}

	keys := make([]string, 0, len(byCategory))
	for key := range byCategory {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	files := make([]SitemapFile, 0, len(keys)+1)
	for _, key := range keys {
		files = append(files, SitemapFile{Path: "sitemap-" + key + ".xml", Entries: byCategory[key]})
	}
	if len(uncategorized) > 0 || len(files) == 0 {
		files = append(files, SitemapFile{Path: UncategorizedPath, Entries: uncategorized})
	}
	return files
}

// FlatSitemap puts every candidate in a single sitemap.xml.
func FlatSitemap(baseURL string, candidates []*domain.Page, fallback time.Time) SitemapFile {
	entries := make([]SitemapEntry, 0, len(candidates))
	for _, page := range candidates {
		entries = append(entries, sitemapEntry(baseURL, page, fallback))
	}
	return SitemapFile{Path: SitemapIndexPath, Entries: entries}
}

// RenderURLSet renders a <urlset> document.
func RenderURLSet(entries []SitemapEntry) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="` + sitemapXMLNamespace + `">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Loc)))
		builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod))
		builder.WriteString(fmt.Sprintf("    <changefreq>%s</changefreq>\n", entry.ChangeFreq))
		builder.WriteString(fmt.Sprintf("    <priority>%s</priority>\n", entry.Priority))
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

// RenderSitemapIndex renders a <sitemapindex> referencing files.
func RenderSitemapIndex(baseURL string, files []SitemapFile, lastMod time.Time) string {
	date := lastMod.UTC().Format(sitemapDateLayout)
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<sitemapindex xmlns="` + sitemapXMLNamespace + `">` + "\n")
	for _, file := range files {
		builder.WriteString("  <sitemap>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(baseURL+"/"+file.Path)))
		builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", date))
		builder.WriteString("  </sitemap>\n")
	}
	builder.WriteString(`</sitemapindex>` + "\n")
	return builder.String()
}

// BuildRobots returns override when set, otherwise a default allowing every
// crawler and pointing to the sitemap.
func BuildRobots(baseURL, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Sitemap: %s/%s\n", baseURL, SitemapIndexPath))
	return builder.String()
}

func escapeXML(value string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(value)); err != nil {
		return value
	}
	return buf.String()
}
