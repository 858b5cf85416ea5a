package export

import (
	"bytes"
	"testing"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func TestWriteDataPrettyPrints(t *testing.T) {
	p := &domain.Page{
		Title:           "A & B",
		Slug:            "a-b",
		URLPath:         "/a-b/",
		Status:          domain.StatusPublished,
		MetaTitle:       "A",
		MetaDescription: "<b>",
		Data:            domain.Row{"city": "Rome"},
		GeneratedHTML:   "<html></html>",
	}
	var buf bytes.Buffer
	if err := WriteData(&buf, []*domain.Page{p}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `[
  {
    "title": "A & B",
    "slug": "a-b",
    "url_path": "/a-b/",
    "status": "published",
    "meta_title": "A",
    "meta_description": "<b>",
    "data": {
      "city": "Rome"
    }
  }
]
`
	if buf.String() != want {
		t.Fatalf("unexpected data export:\n%s", buf.String())
	}
}
