package metadata

import (
	"context"
	"regexp"
	"strings"

	"github.com/meCeltic/Bookmark-AI/internal/urlutil"
)

var (
	// Tag name is case-sensitive on purpose.
	titlePattern   = regexp.MustCompile(`<title[^>]*>([^<]+)</title>`)
	faviconPattern = regexp.MustCompile(`(?i)<link[^>]*rel=["'](?:shortcut )?icon["'][^>]*href=["']([^"']+)["'][^>]*>`)
)

// Extract derives metadata from raw HTML served at finalURL (the URL after
// redirects). It never touches the network: only local summary strategies run.
func Extract(html, finalURL string) Metadata {
	host := hostnameOf(finalURL)
	md := Defaults(host)

	if title, ok := extractTitle(html); ok {
		md.Title = title
	}
	md.Favicon = extractFavicon(html, finalURL)

	page := Page{URL: finalURL, Hostname: host, HTML: html}
	if summary, _, ok := firstSummary(context.Background(), LocalStrategies(DefaultSummaryMaxLength, false), page); ok {
		md.Summary = summary
	}
	return md
}

func extractTitle(html string) (string, bool) {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	return title, title != ""
}

// extractFavicon resolves the first icon link against finalURL, falling back
// to {origin}/favicon.ico. Returns nil when neither yields a valid URL.
func extractFavicon(html, finalURL string) *string {
	if m := faviconPattern.FindStringSubmatch(html); m != nil {
		if resolved, ok := urlutil.ResolveFavicon(finalURL, m[1]); ok {
			return &resolved
		}
	}
	if resolved, ok := urlutil.ResolveFavicon(finalURL, ""); ok {
		return &resolved
	}
	return nil
}

func hostnameOf(raw string) string {
	u, err := urlutil.Parse(raw)
	if err != nil {
		return raw
	}
	return urlutil.Hostname(u)
}
