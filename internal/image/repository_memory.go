package image

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory. It backs the memory:// store
// used for local development and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert appends rec under a fresh UUID.
func (r *MemoryRepository) Insert(ctx context.Context, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec.ID = uuid.NewString()

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
	return rec.ID, nil
}

// Recent returns up to limit records newest first; equal timestamps keep the
// most recently inserted first.
func (r *MemoryRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[len(out)-1-i] = rec
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports how many records are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
