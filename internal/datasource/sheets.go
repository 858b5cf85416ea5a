package datasource

import (
	"net/url"
	"strings"
)

// SheetsCSVURL rewrites a Google Sheets link into its CSV export URL. The
// sheet gid is kept when present in the query or fragment. The second return
// value is false when raw is not a Google Sheets document URL.
func SheetsCSVURL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.HasSuffix(parsed.Host, "docs.google.com") {
		return raw, false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	idx := -1
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "spreadsheets" && segments[i+1] == "d" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+2 >= len(segments) {
		return raw, false
	}

	gid := parsed.Query().Get("gid")
	if gid == "" && strings.HasPrefix(parsed.Fragment, "gid=") {
		gid = strings.TrimPrefix(parsed.Fragment, "gid=")
	}

	// Published documents live under /d/e/{id} and export through /pub.
	if segments[idx+2] == "e" && idx+3 < len(segments) {
		out := url.URL{Scheme: "https", Host: parsed.Host, Path: "/spreadsheets/d/e/" + segments[idx+3] + "/pub"}
		query := url.Values{"output": {"csv"}}
		if gid != "" {
			query.Set("gid", gid)
		}
		out.RawQuery = query.Encode()
		return out.String(), true
	}

	out := url.URL{Scheme: "https", Host: parsed.Host, Path: "/spreadsheets/d/" + segments[idx+2] + "/export"}
	out.RawQuery = "format=csv"
	if gid != "" {
		out.RawQuery += "&gid=" + url.QueryEscape(gid)
	}
	return out.String(), true
}
