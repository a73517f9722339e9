package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// List returns the user's bookmarks arranged by their order list
func (s *Store) List(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	ids, err := s.client.LRange(ctx, UserBookmarksKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark ids: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Bookmark{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Dangling id: record deleted out of band
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookmark %s: %w", ids[i], err)
		}
		if b.UserID != userID {
			continue
		}
		bookmarks = append(bookmarks, b)
	}

	order, err := s.client.LRange(ctx, UserOrderKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return domain.ApplyOrder(bookmarks, order), nil
}

// Get retrieves one of the user's bookmarks
func (s *Store) Get(ctx context.Context, id, userID string) (domain.Bookmark, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if b.UserID != userID {
		return domain.Bookmark{}, store.ErrNotFound
	}
	return b, nil
}

// Add stores a new bookmark at the head of the user's list
func (s *Store) Add(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	newID, err := s.ids.NewID()
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to create bookmark id: %w", err)
	}

	b := domain.Bookmark{
		ID:        newID,
		UserID:    nb.UserID,
		URL:       nb.URL,
		Title:     nb.Title,
		Favicon:   nb.Favicon,
		Summary:   nb.Summary,
		Tags:      domain.DedupTags(nb.Tags),
		CreatedAt: s.now(),
	}

	data, err := json.Marshal(b)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
	pipe.LPush(ctx, UserBookmarksKey(b.UserID), b.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return b, nil
}

// Delete removes a bookmark the user owns and prunes it from the order list
func (s *Store) Delete(ctx context.Context, id, userID string) (bool, error) {
	b, err := s.load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if b.UserID != userID {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.LRem(ctx, UserBookmarksKey(userID), 0, id)
	pipe.LRem(ctx, UserOrderKey(userID), 0, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}

	return true, nil
}

// AddTag appends tag unless it is already present
func (s *Store) AddTag(ctx context.Context, id, tag, userID string) (bool, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if b.UserID != userID {
		return false, store.ErrForbidden
	}
	if b.HasTag(tag) {
		return false, nil
	}

	b.Tags = append(b.Tags, tag)
	data, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	if err := s.client.Set(ctx, BookmarkKey(id), data, 0).Err(); err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return true, nil
}

// SaveOrder replaces the user's order list
func (s *Store) SaveOrder(ctx context.Context, ids []string, userID string) error {
	key := UserOrderKey(userID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(ids) > 0 {
		values := make([]interface{}, len(ids))
		for i, id := range ids {
			values[i] = id
		}
		pipe.RPush(ctx, key, values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

func (s *Store) load(ctx context.Context, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, store.ErrNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return b, nil
}
