package urlformat

import (
	"testing"

	"github.com/goliatone/go-sitegen/internal/domain"
)

func TestFormatURL(t *testing.T) {
	cases := []struct {
		path   string
		format domain.URLFormat
		want   string
	}{
		{"/about", domain.URLPrettySlash, "/about/"},
		{"/about", domain.URLHTML, "/about.html"},
		{"/about/index.html", domain.URLDirectory, "/about/index.html"},
		{"/about/", domain.URLPrettyNoSlash, "/about"},
		{"about.html", domain.URLPrettySlash, "/about/"},
		{"/blog/post/index", domain.URLHTML, "/blog/post.html"},
		{"/", domain.URLPrettySlash, "/"},
		{"", domain.URLHTML, "/index.html"},
		{"/index.html", domain.URLPrettyNoSlash, "/"},
		{"/about", domain.URLFormat("bogus"), "/about/"},
	}
	for _, tc := range cases {
		if got := FormatURL(tc.path, tc.format); got != tc.want {
			t.Fatalf("FormatURL(%q, %q) = %q, want %q", tc.path, tc.format, got, tc.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		path   string
		format domain.URLFormat
		want   string
	}{
		{"/about/", domain.URLPrettySlash, "about/index.html"},
		{"/about", domain.URLPrettyNoSlash, "about/index.html"},
		{"/about/index.html", domain.URLDirectory, "about/index.html"},
		{"/about.html", domain.URLHTML, "about.html"},
		{"/", domain.URLHTML, "index.html"},
		{"/../x/", domain.URLPrettySlash, "x/index.html"},
		{"/guides/../../../etc/passwd", domain.URLHTML, "etc/passwd.html"},
		{"/a/./b//c", domain.URLDirectory, "a/b/c/index.html"},
		{"..", domain.URLPrettySlash, "index.html"},
	}
	for _, tc := range cases {
		if got := OutputPath(tc.path, tc.format); got != tc.want {
			t.Fatalf("OutputPath(%q, %q) = %q, want %q", tc.path, tc.format, got, tc.want)
		}
	}
}

func TestResolveDomain(t *testing.T) {
	if got := ResolveDomain("www.acme.io/", "acme"); got != "https://www.acme.io" {
		t.Fatalf("unexpected custom domain %q", got)
	}
	if got := ResolveDomain("http://acme.io", ""); got != "https://acme.io" {
		t.Fatalf("expected https prefix, got %q", got)
	}
	if got := ResolveDomain("", "acme"); got != "https://acme.com" {
		t.Fatalf("unexpected slug domain %q", got)
	}
	if got := ResolveDomain(" ", ""); got != DefaultDomain {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestParse(t *testing.T) {
	if format, err := Parse(""); err != nil || format != domain.URLPrettySlash {
		t.Fatalf("expected default pretty_slash, got %q %v", format, err)
	}
	if _, err := Parse("html"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Parse("pretty"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
