package cache

import (
	"context"
	"time"

	"github.com/okian/playerscore/internal/adapters/source"
	"github.com/okian/playerscore/pkg/logger"
	"github.com/okian/playerscore/pkg/metrics"
)

// KeyPrefix namespaces dataset payloads in shared caches.
const KeyPrefix = "playerscore:dataset:"

// CachedSource serves dataset bytes from a Cache before asking the wrapped Source.
type CachedSource struct {
	src   source.Source
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

var _ source.Source = (*CachedSource)(nil)

// NewCachedSource wraps src. A nil log discards cache warnings.
func NewCachedSource(src source.Source, c Cache, ttl time.Duration, log logger.Logger) *CachedSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{src: src, cache: c, ttl: ttl, log: log}
}

func (s *CachedSource) Location() string { return s.src.Location() }

func (s *CachedSource) key() string { return KeyPrefix + s.src.Location() }

// Fetch returns cached bytes when present. Cache failures are logged and the
// wrapped source is used instead.
func (s *CachedSource) Fetch(ctx context.Context) ([]byte, error) {
	key := s.key()
	b, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheError()
		s.log.Warn(ctx, "dataset cache read failed",
			logger.String("key", key),
			logger.Error(err),
		)
	case ok:
		metrics.RecordCacheHit()
		return b, nil
	default:
		metrics.RecordCacheMiss()
	}

	b, err = s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		metrics.RecordCacheError()
		s.log.Warn(ctx, "dataset cache write failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}
	return b, nil
}

// Refresh bypasses the cache for one fetch and stores the result.
func (s *CachedSource) Refresh(ctx context.Context) ([]byte, error) {
	b, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, s.key(), b, s.ttl); err != nil {
		metrics.RecordCacheError()
		s.log.Warn(ctx, "dataset cache write failed",
			logger.String("key", s.key()),
			logger.Error(err),
		)
	}
	return b, nil
}
