package metadata

import (
	"context"
	"regexp"
	"strings"
)

var (
	descriptionPattern   = regexp.MustCompile(`(?i)<meta[^>]*name=["']description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	ogDescriptionPattern = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	paragraphPattern     = regexp.MustCompile(`<p[^>]*>([^<]+)</p>`)
	divPattern           = regexp.MustCompile(`<div[^>]*>([^<]{40,})</div>`)
)

const (
	maxParagraphs      = 3
	minParagraphLength = 20
	maxDivs            = 2
)

// Page is what summary strategies work from.
type Page struct {
	URL      string // final URL after redirects
	Hostname string
	HTML     string
}

// SummaryStrategy produces a candidate summary. ok=false passes to the next strategy.
type SummaryStrategy interface {
	Name() string
	Summarize(ctx context.Context, page Page) (summary string, ok bool)
}

// LocalStrategies is the regex chain in precedence order: meta description,
// og:description, paragraphs, divs. With truncateMeta, meta descriptions
// longer than maxLength are cut and suffixed with "...".
func LocalStrategies(maxLength int, truncateMeta bool) []SummaryStrategy {
	metaLimit := 0
	if truncateMeta {
		metaLimit = maxLength
	}
	return []SummaryStrategy{
		metaStrategy{name: "meta_description", pattern: descriptionPattern, maxLength: metaLimit},
		metaStrategy{name: "og_description", pattern: ogDescriptionPattern, maxLength: metaLimit},
		paragraphStrategy{maxLength: maxLength},
		divStrategy{maxLength: maxLength},
	}
}

// Summarize runs the local chain with meta truncation and falls back to the
// default summary for pageURL's host.
func Summarize(html, pageURL string, maxLength int) string {
	host := hostnameOf(pageURL)
	page := Page{URL: pageURL, Hostname: host, HTML: html}
	if summary, _, ok := firstSummary(context.Background(), LocalStrategies(maxLength, true), page); ok {
		return summary
	}
	return DefaultSummary(host)
}

// firstSummary returns the first strategy's result that succeeds.
func firstSummary(ctx context.Context, strategies []SummaryStrategy, page Page) (string, string, bool) {
	for _, s := range strategies {
		if summary, ok := s.Summarize(ctx, page); ok {
			return summary, s.Name(), true
		}
	}
	return "", "", false
}

type metaStrategy struct {
	name      string
	pattern   *regexp.Regexp
	maxLength int // 0 = no truncation
}

func (s metaStrategy) Name() string { return s.name }

func (s metaStrategy) Summarize(_ context.Context, page Page) (string, bool) {
	m := s.pattern.FindStringSubmatch(page.HTML)
	if m == nil {
		return "", false
	}
	description := strings.TrimSpace(m[1])
	if description == "" {
		return "", false
	}
	if s.maxLength > 0 {
		if r := []rune(description); len(r) > s.maxLength {
			return string(r[:s.maxLength]) + "...", true
		}
	}
	return description, true
}

type paragraphStrategy struct {
	maxLength int
}

func (paragraphStrategy) Name() string { return "paragraphs" }

func (s paragraphStrategy) Summarize(_ context.Context, page Page) (string, bool) {
	var paragraphs []string
	for _, m := range paragraphPattern.FindAllStringSubmatch(page.HTML, -1) {
		if len(paragraphs) >= maxParagraphs {
			break
		}
		text := strings.TrimSpace(m[1])
		if len([]rune(text)) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	}
	if len(paragraphs) == 0 {
		return "", false
	}
	return cut(strings.Join(paragraphs, " "), s.maxLength), true
}

type divStrategy struct {
	maxLength int
}

func (divStrategy) Name() string { return "divs" }

func (s divStrategy) Summarize(_ context.Context, page Page) (string, bool) {
	var divs []string
	for _, m := range divPattern.FindAllStringSubmatch(page.HTML, maxDivs) {
		divs = append(divs, strings.TrimSpace(m[1]))
	}
	if len(divs) == 0 {
		return "", false
	}
	return cut(strings.Join(divs, " "), s.maxLength), true
}

// cut keeps the first maxLength runes and appends "..." whenever the kept text
// is exactly maxLength long, including text that already was that length.
func cut(text string, maxLength int) string {
	r := []rune(text)
	if len(r) > maxLength {
		r = r[:maxLength]
	}
	if len(r) == maxLength {
		return string(r) + "..."
	}
	return string(r)
}
