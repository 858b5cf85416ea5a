package datasource

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/domain"
)

const (
	textCodeFetchFailed = "DATASOURCE_FETCH_FAILED"
	textCodeNotCSV      = "DATASOURCE_NOT_CSV"
	textCodeTooLarge    = "DATASOURCE_TOO_LARGE"

	maxBodyBytes = 32 << 20
)

// Fetcher downloads CSV documents over HTTP. No retries are performed.
type Fetcher struct {
	client *http.Client
	limit  int64
}

// NewFetcher wraps client, defaulting to http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, limit: maxBodyBytes}
}

// Fetch downloads rawURL and parses it as CSV.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Table{}, externalError(err, textCodeFetchFailed, "invalid data source url")
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Table{}, externalError(err, textCodeFetchFailed, "data source unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return domain.Table{}, externalError(err, textCodeFetchFailed, "data source read failed")
	}
	if int64(len(body)) > f.limit {
		return domain.Table{}, externalError(
			fmt.Errorf("datasource: %s is larger than %d bytes", rawURL, f.limit),
			textCodeTooLarge, "data source too large")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Table{}, externalError(
			fmt.Errorf("datasource: GET %s returned %s", rawURL, resp.Status),
			textCodeFetchFailed, "data source request failed")
	}
	if isHTML(resp.Header.Get("Content-Type")) {
		return domain.Table{}, externalError(
			fmt.Errorf("datasource: %s returned an HTML page%s instead of CSV", rawURL, pageTitle(body)),
			textCodeNotCSV, "data source is not CSV")
	}

	table, err := ParseCSVBytes(body)
	if err != nil {
		return domain.Table{}, externalError(err, textCodeNotCSV, "data source is not valid CSV")
	}
	return table, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// pageTitle names the HTML page returned in place of CSV, typically a login
// or "file not published" screen.
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	return fmt.Sprintf(" (%q)", title)
}

func externalError(err error, code, message string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).WithTextCode(code)
}
