package seed

import (
	"errors"
	"strings"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/urlutil"
)

// ErrEmpty is returned when a seed file holds no importable bookmark.
var ErrEmpty = errors.New("no valid bookmarks found in seed file")

// Item is a validated import entry.
type Item struct {
	UserID string
	URL    string // normalized
	Tags   []string
}

// Mapper validates seed entries and turns them into Items.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// Map returns the importable items and how many entries were dropped.
// Entries without a user, or whose URL does not parse after normalization,
// are dropped. A URL repeated for one user is imported once, tags merged.
func (m *Mapper) Map(file File) ([]Item, int, error) {
	items := make([]Item, 0)
	index := make(map[string]int)
	skipped := 0

	for _, us := range file {
		user := strings.TrimSpace(us.User)
		for _, e := range us.Bookmarks {
			if user == "" || strings.TrimSpace(e.URL) == "" {
				skipped++
				continue
			}
			normalized := urlutil.Normalize(e.URL)
			if _, err := urlutil.Parse(normalized); err != nil {
				skipped++
				continue
			}

			tags := make([]string, 0, len(e.Tags))
			for _, t := range e.Tags {
				tags = append(tags, strings.TrimSpace(t))
			}

			key := user + "\x00" + normalized
			if i, ok := index[key]; ok {
				items[i].Tags = domain.DedupTags(append(items[i].Tags, tags...))
				continue
			}
			index[key] = len(items)
			items = append(items, Item{UserID: user, URL: normalized, Tags: domain.DedupTags(tags)})
		}
	}

	if len(items) == 0 {
		return nil, skipped, ErrEmpty
	}
	return items, skipped, nil
}
