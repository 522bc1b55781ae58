package image

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Service contains the logic for recording uploads and listing the gallery.
type Service struct {
	repo  Repository
	cache Cache
	// stale is set while an invalidation is owed to the cache.
	stale atomic.Bool
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Service.
type Option func(s *Service)

// WithCache serves Recent from c and invalidates it on every Save.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithClock replaces time.Now as the source of UploadedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new image Service.
func NewService(repo Repository, l *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, log: l}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records url with a server-assigned timestamp. The same url may be saved
// any number of times; each call creates a new record.
func (s *Service) Save(ctx context.Context, url string) (*Record, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	// Millisecond precision is what every backend can store.
	rec := Record{URL: url, UploadedAt: s.now().UTC().Truncate(time.Millisecond)}
	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert upload record: %w", err)
	}
	rec.ID = id

	if s.cache != nil {
		s.stale.Store(true)
		s.invalidate(ctx)
	}
	return &rec, nil
}

// Recent returns the newest RecentLimit records, newest first.
func (s *Service) Recent(ctx context.Context) ([]Record, error) {
	gen, cached := s.cacheGeneration(ctx)
	if cached {
		records, ok, err := s.cache.Get(ctx, gen)
		switch {
		case err != nil:
			s.log.Warn("gallery cache read failed", zap.Error(err))
		case ok:
			return records, nil
		}
	}

	records, err := s.repo.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list upload records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}

	if cached {
		if err := s.cache.Set(ctx, gen, records); err != nil {
			s.log.Warn("gallery cache write failed", zap.Error(err))
		}
	}
	return records, nil
}

// cacheGeneration reports the generation to read and write under, and false
// when the cache must be bypassed for this call.
func (s *Service) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	if s.stale.Load() && !s.invalidate(ctx) {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("gallery cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// invalidate advances the cache generation and clears stale on success.
func (s *Service) invalidate(ctx context.Context) bool {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("gallery cache invalidation failed", zap.Error(err))
		return false
	}
	s.stale.Store(false)
	return true
}
