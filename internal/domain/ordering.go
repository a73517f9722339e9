package domain

import (
	"sort"
	"strings"
)

// ApplyOrder arranges bookmarks for display.
//
// Ids present in order come first, in their recorded relative order. Ids in
// order that match no bookmark (or repeat) are skipped. Everything else
// follows, newest CreatedAt first; ties keep their incoming order.
func ApplyOrder(bookmarks []Bookmark, order []string) []Bookmark {
	byID := make(map[string]int, len(bookmarks))
	for i, b := range bookmarks {
		byID[b.ID] = i
	}

	out := make([]Bookmark, 0, len(bookmarks))
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, bookmarks[i])
	}

	rest := make([]Bookmark, 0, len(bookmarks)-len(out))
	for _, b := range bookmarks {
		if !placed[b.ID] {
			rest = append(rest, b)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].CreatedAt.After(rest[j].CreatedAt)
	})

	return append(out, rest...)
}

// PruneOrder removes every occurrence of id from order.
func PruneOrder(order []string, id string) []string {
	out := make([]string, 0, len(order))
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Filter keeps bookmarks whose title, url, summary or any tag contains query,
// case-insensitively. Order is preserved; an empty query keeps everything.
func Filter(bookmarks []Bookmark, query string) []Bookmark {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return bookmarks
	}

	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if matches(b, q) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b Bookmark, q string) bool {
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q) ||
		strings.Contains(strings.ToLower(b.Summary), q) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
