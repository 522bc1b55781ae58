// Package image stores and lists upload records: the public URL of every image
// that reached the media host, stamped with the time it was recorded.
package image

import (
	"context"
	"errors"
	"time"
)

// RecentLimit is the size of the most-recent window returned to the gallery.
const RecentLimit = 20

// ErrEmptyURL is returned when a record is saved without a URL.
var ErrEmptyURL = errors.New("image url is required")

// Record is one successful upload. Records are never updated or deleted.
type Record struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Repository persists records. Implementations must return Recent newest first.
type Repository interface {
	// Insert stores rec and returns the identifier the store assigned to it.
	Insert(ctx context.Context, rec Record) (string, error)
	// Recent returns at most limit records ordered by UploadedAt descending.
	Recent(ctx context.Context, limit int) ([]Record, error)
}
