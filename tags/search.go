// Package tags serves the content hub's tag autocomplete.
package tags

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"codelegends_gateway/cache"
	"codelegends_gateway/logger"
	"codelegends_gateway/models"
)

type API interface {
	SearchTags(ctx context.Context, token, query string) ([]models.Tag, error)
}

// Searcher coalesces identical in-flight searches and keeps results for ttl,
// so a burst of keystrokes costs one backend call per distinct query. Failed
// and empty searches are not cached.
type Searcher struct {
	api   API
	cache cache.Cache
	log   *logger.Logger
	ttl   time.Duration
	group singleflight.Group
}

func NewSearcher(api API, c cache.Cache, log *logger.Logger, ttl time.Duration) *Searcher {
	return &Searcher{api: api, cache: c, log: log.With("component", "TagSearcher"), ttl: ttl}
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func (s *Searcher) Search(ctx context.Context, token, query string) []models.Tag {
	q := normalize(query)
	if q == "" {
		return []models.Tag{}
	}
	key := "tags:" + q

	var cached []models.Tag
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("tag cache read failed", "key", key, "error", err)
	} else if ok {
		return cached
	}

	// The fetch is shared with every coalesced caller, so it must outlive the
	// one that started it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		found, err := s.api.SearchTags(fetchCtx, token, q)
		if err != nil {
			return nil, err
		}
		if s.ttl > 0 && len(found) > 0 {
			if err := s.cache.Set(fetchCtx, key, found, s.ttl); err != nil {
				s.log.Warn("tag cache write failed", "key", key, "error", err)
			}
		}
		return found, nil
	})
	if err != nil {
		s.log.Warn("tag search failed", "query", q, "error", err)
		return []models.Tag{}
	}
	return v.([]models.Tag)
}
