// Package storage defines the object storage operations the S3 upload provider needs.
// The MinIO implementation works with any S3-compatible provider (MinIO, AWS S3, R2).
package storage

import (
	"context"
	"net/url"
	"time"
)

// Storage issues browser upload authorizations for keys in a single bucket.
type Storage interface {
	// PresignUpload returns the form POST endpoint and the fields a browser must send
	// (before the file part) to write key until expires, with at most maxBytes of content.
	PresignUpload(ctx context.Context, key string, expires time.Time, maxBytes int64) (*url.URL, map[string]string, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
	// Bucket names the bucket the keys live in.
	Bucket() string
}
