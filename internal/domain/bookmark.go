package domain

import "time"

// Bookmark is a saved URL plus derived and user metadata.
//
// The display order is not part of the record: it lives in a per-user side
// list of ids (see ApplyOrder).
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store at creation and never changes.
	ID string `json:"id"`

	// UserID is the owner. Stores scope every read and write by it.
	UserID string `json:"user_id"`

	// URL is the normalized source URL.
	// Example: https://go.dev/doc/
	URL string `json:"url"`

	// ─────────────────────────────
	// Derived metadata
	// (set once at creation)
	// ─────────────────────────────

	Title string `json:"title,omitempty"`

	// Favicon is nil or an absolute URL. Never an unvalidated string.
	Favicon *string `json:"favicon"`

	Summary string `json:"summary,omitempty"`

	// ─────────────────────────────
	// User metadata
	// ─────────────────────────────

	// Tags keep insertion order and never hold an exact duplicate.
	Tags []string `json:"tags"`

	// CreatedAt drives the default newest-first ordering.
	CreatedAt time.Time `json:"created_at"`
}

// NewBookmark is the input to a store's Add: a bookmark without id or timestamp.
type NewBookmark struct {
	UserID  string
	URL     string
	Title   string
	Favicon *string
	Summary string
	Tags    []string
}

// HasTag reports an exact, case-sensitive match.
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate store-held slices.
func (b Bookmark) Clone() Bookmark {
	out := b
	out.Tags = append([]string{}, b.Tags...)
	if b.Favicon != nil {
		f := *b.Favicon
		out.Favicon = &f
	}
	return out
}

// DedupTags drops exact duplicates and empty strings, keeping first occurrences.
func DedupTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
