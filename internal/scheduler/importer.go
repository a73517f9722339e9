package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metadata"
	"github.com/meCeltic/Bookmark-AI/internal/metrics"
	"github.com/meCeltic/Bookmark-AI/internal/sources/seed"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// Fetcher is the metadata source used for imported URLs.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) metadata.Metadata
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Added     int
	Existing  int
	TagsAdded int
	Skipped   int // invalid seed entries
	Failed    int // store errors
}

// Importer loads the seed file into the store at start, on every tick and on
// manual trigger. Runs only ever add: nothing in the store is removed.
type Importer struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	store         store.Store
	fetcher       Fetcher
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger <-chan struct{}
}

// NewImporter creates an importer. interval <= 0 disables the ticker; manual
// triggers still work.
func NewImporter(
	seedFile string,
	st store.Store,
	f Fetcher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *Importer {
	return &Importer{
		loader:        seed.NewLoader(seedFile),
		mapper:        seed.NewMapper(),
		store:         st,
		fetcher:       f,
		logger:        log.With(logger.String("seed_file", seedFile)),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs one import immediately, then keeps importing in the background
// until Stop or ctx is done. Only the first run's failure is returned.
func (im *Importer) Start(ctx context.Context) error {
	if _, err := im.Import(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if im.interval > 0 {
		ticker = time.NewTicker(im.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				im.importLogged(ctx)
			case <-im.manualTrigger:
				im.logger.Info("manual seed import triggered")
				im.importLogged(ctx)
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the background loop. Safe to call more than once.
func (im *Importer) Stop() {
	im.stopOnce.Do(func() { close(im.stopCh) })
}

func (im *Importer) importLogged(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("seed import failed", logger.Error(err))
	}
}

// Import runs one pass over the seed file.
func (im *Importer) Import(ctx context.Context) (ImportResult, error) {
	res, err := im.run(ctx)
	if err != nil {
		metrics.ObserveImport("error")
		return res, err
	}
	metrics.ObserveImport("ok")

	im.logger.Info("seed import finished",
		logger.Int("added", res.Added),
		logger.Int("existing", res.Existing),
		logger.Int("tags_added", res.TagsAdded),
		logger.Int("skipped", res.Skipped),
		logger.Int("failed", res.Failed))
	return res, nil
}

func (im *Importer) run(ctx context.Context) (ImportResult, error) {
	var res ImportResult

	file, err := im.loader.Load()
	if err != nil {
		return res, err
	}
	items, skipped, err := im.mapper.Map(file)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	// user id -> url -> bookmark id
	known := make(map[string]map[string]string)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		urls, ok := known[item.UserID]
		if !ok {
			urls, err = im.existingURLs(ctx, item.UserID)
			if err != nil {
				return res, fmt.Errorf("list bookmarks for %s: %w", item.UserID, err)
			}
			known[item.UserID] = urls
		}

		if id, ok := urls[item.URL]; ok {
			res.Existing++
			res.TagsAdded += im.applyTags(ctx, id, item, &res)
			continue
		}

		md := im.fetcher.Fetch(ctx, item.URL)
		b, err := im.store.Add(ctx, domain.NewBookmark{
			UserID:  item.UserID,
			URL:     item.URL,
			Title:   md.Title,
			Favicon: md.Favicon,
			Summary: md.Summary,
			Tags:    item.Tags,
		})
		if err != nil {
			res.Failed++
			im.logger.Warn("failed to import bookmark",
				logger.String("user", item.UserID),
				logger.String("url", item.URL),
				logger.Error(err))
			continue
		}
		metrics.IncBookmarksCreated()
		urls[item.URL] = b.ID
		res.Added++
	}

	return res, nil
}

func (im *Importer) existingURLs(ctx context.Context, userID string) (map[string]string, error) {
	bookmarks, err := im.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	urls := make(map[string]string, len(bookmarks))
	for _, b := range bookmarks {
		urls[b.URL] = b.ID
	}
	return urls, nil
}

// applyTags adds seed tags missing from an existing bookmark.
func (im *Importer) applyTags(ctx context.Context, id string, item seed.Item, res *ImportResult) int {
	added := 0
	for _, tag := range item.Tags {
		ok, err := im.store.AddTag(ctx, id, tag, item.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return added
		}
		if err != nil {
			res.Failed++
			im.logger.Warn("failed to tag imported bookmark",
				logger.String("id", id),
				logger.String("tag", tag),
				logger.Error(err))
			continue
		}
		if ok {
			added++
		}
	}
	return added
}
