package export

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

const IndexPath = "index.html"

const (
	defaultFont         = "system-ui, -apple-system, sans-serif"
	defaultPrimaryColor = "#2563eb"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}">
{{- end}}
{{- if .Favicon}}
<link rel="icon" href="{{.Favicon}}">
{{- end}}
<meta property="og:title" content="{{.Title}}">
{{- if .Description}}
<meta property="og:description" content="{{.Description}}">
{{- end}}
{{- if .OGImage}}
<meta property="og:image" content="{{.OGImage}}">
{{- end}}
<meta property="og:url" content="{{.Domain}}/">
<style>
body{font-family:{{.Font}};margin:0 auto;max-width:960px;padding:2rem;background:{{.Background}};color:{{.Foreground}}}
a{color:{{.Primary}}}
h1{color:{{.Primary}}}
ul.pages{list-style:none;padding:0}
ul.pages li{padding:.35rem 0;border-bottom:1px solid {{.Border}}}
</style>
{{.Analytics}}
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Description}}
<p>{{.Description}}</p>
{{- end}}
<ul class="pages">
{{- range .Links}}
<li><a href="{{.Href}}">{{.Title}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type indexLink struct {
	Href  string
	Title string
}

type indexView struct {
	Title       string
	Description string
	Domain      string
	Favicon     string
	OGImage     string
	Font        template.CSS
	Primary     template.CSS
	Background  template.CSS
	Foreground  template.CSS
	Border      template.CSS
	Analytics   template.HTML
	Links       []indexLink
}

// buildIndex renders the standalone index page linking every exported page.
func buildIndex(project domain.Project, baseURL string, links []indexLink) (string, error) {
	settings := project.Settings
	view := indexView{
		Title:       firstNonEmpty(settings.SiteName, project.Name, "Pages"),
		Description: settings.SiteDescription,
		Domain:      baseURL,
		Favicon:     settings.FaviconURL,
		OGImage:     settings.OGImageURL,
		Font:        template.CSS(firstNonEmpty(settings.FontFamily, defaultFont)),
		Primary:     template.CSS(firstNonEmpty(settings.PrimaryColor, defaultPrimaryColor)),
		Analytics:   template.HTML(settings.AnalyticsSnippet),
		Links:       links,
	}
	if strings.EqualFold(strings.TrimSpace(settings.Theme), "dark") {
		view.Background, view.Foreground, view.Border = "#0f172a", "#e2e8f0", "#1e293b"
	} else {
		view.Background, view.Foreground, view.Border = "#ffffff", "#0f172a", "#e2e8f0"
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
