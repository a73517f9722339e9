package metadata

import (
	"strings"
	"testing"
)

func faviconOf(md Metadata) string {
	if md.Favicon == nil {
		return "<nil>"
	}
	return *md.Favicon
}

func TestExtractBasicPage(t *testing.T) {
	html := `<html><head><title>Example</title><meta name="description" content="A test page."></head></html>`

	md := Extract(html, "https://example.com")

	if md.Title != "Example" {
		t.Errorf("Title = %q, want %q", md.Title, "Example")
	}
	if md.Summary != "A test page." {
		t.Errorf("Summary = %q, want %q", md.Summary, "A test page.")
	}
	if got := faviconOf(md); got != "https://example.com/favicon.ico" {
		t.Errorf("Favicon = %q, want %q", got, "https://example.com/favicon.ico")
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "simple", html: `<title>Hello</title>`, want: "Hello"},
		{name: "attributes and whitespace", html: `<title data-x="1">  Spaced Out  </title>`, want: "Spaced Out"},
		{name: "first wins", html: `<title>One</title><title>Two</title>`, want: "One"},
		{name: "uppercase tag not matched", html: `<TITLE>Shouting</TITLE>`, want: "example.com"},
		{name: "unclosed not matched", html: `<title>Never closed`, want: "example.com"},
		{name: "nested markup not matched", html: `<title><b>Bold</b></title>`, want: "example.com"},
		{name: "blank falls back", html: `<title>   </title>`, want: "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Extract(tt.html, "https://example.com/")
			if md.Title != tt.want {
				t.Errorf("Title = %q, want %q", md.Title, tt.want)
			}
		})
	}
}

func TestExtractFavicon(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		base  string
		want  string
	}{
		{
			name: "root relative icon",
			html: `<link rel="icon" href="/static/icon.png">`,
			base: "https://example.com/a/b",
			want: "https://example.com/static/icon.png",
		},
		{
			name: "shortcut icon single quotes",
			html: `<link rel='shortcut icon' href='favicon.gif'>`,
			base: "https://example.com/docs/page.html",
			want: "https://example.com/docs/favicon.gif",
		},
		{
			name: "case insensitive tag and rel",
			html: `<LINK REL="ICON" HREF="//cdn.example.net/i.ico">`,
			base: "https://example.com",
			want: "https://cdn.example.net/i.ico",
		},
		{
			name: "href before rel is not matched",
			html: `<link href="/x.ico" rel="icon">`,
			base: "https://example.com",
			want: "https://example.com/favicon.ico",
		},
		{
			name: "apple touch icon is not an icon link",
			html: `<link rel="apple-touch-icon" href="/apple.png">`,
			base: "https://example.com",
			want: "https://example.com/favicon.ico",
		},
		{
			name: "invalid resolved icon falls back to default",
			html: `<link rel="icon" href="https://bad host/icon.ico">`,
			base: "https://example.com",
			want: "https://example.com/favicon.ico",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Extract(tt.html, tt.base)
			if got := faviconOf(md); got != tt.want {
				t.Errorf("Favicon = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSummaryPrecedence(t *testing.T) {
	longPara := strings.Repeat("word ", 10) // 50 chars

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "meta description beats og",
			html: `<meta property="og:description" content="OG text"><meta name="description" content="Meta text">`,
			want: "Meta text",
		},
		{
			name: "og description when no meta",
			html: `<meta property="og:description" content="  OG text  "><p>` + longPara + `</p>`,
			want: "OG text",
		},
		{
			name: "meta description is not truncated",
			html: `<meta name="description" content="` + strings.Repeat("a", 250) + `">`,
			want: strings.Repeat("a", 250),
		},
		{
			name: "paragraphs when no meta",
			html: `<p>short</p><p>This paragraph is long enough.</p><p>Second paragraph is also long.</p>`,
			want: "This paragraph is long enough. Second paragraph is also long.",
		},
		{
			name: "divs when no paragraphs",
			html: `<div>This div body holds at least forty characters.</div>`,
			want: "This div body holds at least forty characters.",
		},
		{
			name: "default when nothing matches",
			html: `<html><body><span>nothing</span></body></html>`,
			want: "Bookmark from example.com. No summary available.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Extract(tt.html, "https://example.com/")
			if md.Summary != tt.want {
				t.Errorf("Summary = %q, want %q", md.Summary, tt.want)
			}
		})
	}
}
