package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestParseCSV(t *testing.T) {
	input := "\xEF\xBB\xBF title , city,\nAlpha,Paris,x\n,,\nBeta\n\"Gamma, Inc\",\"Rome\"\n"
	table, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "title" || table.Columns[1] != "city" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	if table.Rows[0].String("city") != "Paris" {
		t.Fatalf("unexpected first row %v", table.Rows[0])
	}
	if _, ok := table.Rows[1]["city"]; ok {
		t.Fatalf("expected short record to leave city absent")
	}
	if table.Rows[2].String("title") != "Gamma, Inc" {
		t.Fatalf("unexpected quoted value %q", table.Rows[2].String("title"))
	}
}

func TestParseCSVRejectsEmptyInput(t *testing.T) {
	if _, err := ParseCSVBytes(nil); !errors.Is(err, ErrEmptyCSV) {
		t.Fatalf("expected empty csv error, got %v", err)
	}
	if _, err := ParseCSVBytes([]byte(" , \n1,2\n")); !errors.Is(err, ErrNoHeaderName) {
		t.Fatalf("expected header error, got %v", err)
	}
}

func TestSheetsCSVURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://docs.google.com/spreadsheets/d/abc123/edit#gid=42", "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42", true},
		{"https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing", "https://docs.google.com/spreadsheets/d/abc123/export?format=csv", true},
		{"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7", "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7", true},
		{"https://docs.google.com/spreadsheets/d/e/2PACX-1/pubhtml", "https://docs.google.com/spreadsheets/d/e/2PACX-1/pub?output=csv", true},
		{"https://example.com/data.csv", "https://example.com/data.csv", false},
		{"https://docs.google.com/document/d/abc/edit", "https://docs.google.com/document/d/abc/edit", false},
	}
	for _, tc := range cases {
		got, ok := SheetsCSVURL(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("SheetsCSVURL(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/login":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><head><title>Sign in</title></head><body></body></html>"))
		default:
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("title\nAlpha\n"))
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	table, err := fetcher.Fetch(context.Background(), server.URL+"/ok.csv")
	if err != nil || table.Len() != 1 {
		t.Fatalf("expected one row, got %v %v", table, err)
	}

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected external 404 error, got %v", err)
	}

	_, err = fetcher.Fetch(context.Background(), server.URL+"/login")
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) || !strings.Contains(err.Error(), "Sign in") {
		t.Fatalf("expected html rejection naming the page, got %v", err)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	const body = "title\nAlpha\nBeta\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	fetcher.limit = int64(len(body))
	table, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil || table.Len() != 2 {
		t.Fatalf("expected body at the limit to parse, got %v %v", table, err)
	}

	fetcher.limit = int64(len(body)) - 1
	table, err = fetcher.Fetch(context.Background(), server.URL)
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) || !strings.Contains(err.Error(), "larger than") {
		t.Fatalf("expected oversized body rejected, got %v %v", table, err)
	}
	var tagged *goerrors.Error
	if !errors.As(err, &tagged) || tagged.TextCode != textCodeTooLarge {
		t.Fatalf("expected %s text code, got %v", textCodeTooLarge, err)
	}
}

func TestLoaderConcatenatesAndCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("title,price\nRemote,10\n"))
	}))
	defer server.Close()

	loader := NewLoader(WithFetcher(NewFetcher(server.Client())))
	sources := []Source{
		{ID: "upload", Kind: KindUpload, Data: []byte("title,city\nLocal,Oslo\n")},
		{ID: "remote", Kind: KindURL, URL: server.URL + "/data.csv"},
	}

	table, err := loader.Load(context.Background(), sources, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 2 || table.Rows[0].String("title") != "Local" || table.Rows[1].String("title") != "Remote" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
	if strings.Join(table.Columns, ",") != "title,city,price" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}

	if _, err := loader.Load(context.Background(), sources, LoadOptions{}); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected cached table, got %d fetches", hits.Load())
	}
	if _, err := loader.Load(context.Background(), sources, LoadOptions{Refresh: true}); err != nil {
		t.Fatalf("refresh load: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refresh to refetch, got %d fetches", hits.Load())
	}
}

func TestLoaderValidatesSources(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(context.Background(), nil, LoadOptions{}); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected no sources error, got %v", err)
	}
	_, err := loader.Load(context.Background(), []Source{{ID: "x", Kind: KindURL}}, LoadOptions{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
