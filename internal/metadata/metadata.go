// Package metadata derives a bookmark's title, favicon and summary from a URL.
//
// Extraction is deliberately regex-based and runs on raw markup: malformed or
// unusual markup is simply not matched. Do not swap in an HTML parser.
package metadata

import "fmt"

// DefaultSummaryMaxLength bounds heuristic (paragraph/div) summaries, in runes.
const DefaultSummaryMaxLength = 200

// InvalidURLSummary is returned when the input cannot be turned into a URL.
const InvalidURLSummary = "Could not process this URL. Please check the format."

// Metadata is the best-effort description of a page.
type Metadata struct {
	Title   string  `json:"title"`
	Favicon *string `json:"favicon"`
	Summary string  `json:"summary"`
}

// DefaultSummary is the placeholder used when nothing better is available.
func DefaultSummary(hostname string) string {
	return fmt.Sprintf("Bookmark from %s. No summary available.", hostname)
}

// Defaults is what a page gets when it cannot be fetched or parsed.
func Defaults(hostname string) Metadata {
	return Metadata{
		Title:   hostname,
		Favicon: nil,
		Summary: DefaultSummary(hostname),
	}
}

// InvalidURL is returned for input that does not parse even after normalization.
func InvalidURL(raw string) Metadata {
	return Metadata{
		Title:   raw,
		Favicon: nil,
		Summary: InvalidURLSummary,
	}
}
