package export

import (
	"encoding/json"
	"io"

	"github.com/goliatone/go-sitegen/internal/domain"
	"github.com/goliatone/go-sitegen/internal/slugs"
)

// DataRecord is one entry of the raw data export.
type DataRecord struct {
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	URLPath         string            `json:"url_path"`
	Status          domain.PageStatus `json:"status"`
	MetaTitle       string            `json:"meta_title"`
	MetaDescription string            `json:"meta_description"`
	Data            domain.Row        `json:"data"`
}

// WriteData writes pages as a pretty printed JSON array with two space
// indentation.
func WriteData(w io.Writer, pages []*domain.Page) error {
	records := make([]DataRecord, 0, len(pages))
	for _, page := range pages {
		if page == nil {
			continue
		}
		data := page.Data
		if data == nil {
			data = domain.Row{}
		}
		records = append(records, DataRecord{
			Title:           page.Title,
			Slug:            page.Slug,
			URLPath:         page.URLPath,
			Status:          page.Status,
			MetaTitle:       page.MetaTitle,
			MetaDescription: page.MetaDescription,
			Data:            data,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// DataFileName is the download name of the raw data export.
func DataFileName(project domain.Project) string {
	return slugs.OrDefault(project.Slug, "export") + "-pages.json"
}
