package signature

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uploadgallery/service/internal/storage"
)

// S3Signer authorizes one browser POST to a fresh key in an S3-compatible bucket.
type S3Signer struct {
	store    storage.Storage
	ttl      time.Duration
	maxBytes int64
	newKey   func(now time.Time) string
}

// NewS3Signer creates a signer whose policies stay valid for ttl.
func NewS3Signer(store storage.Storage, ttl time.Duration, maxBytes int64) *S3Signer {
	return &S3Signer{store: store, ttl: ttl, maxBytes: maxBytes, newKey: objectKey}
}

// Sign presigns a POST policy. The object URL is known up front and returned as PublicURL.
func (s *S3Signer) Sign(ctx context.Context, now time.Time) (*Credential, error) {
	key := s.newKey(now)

	u, fields, err := s.store.PresignUpload(ctx, key, now.Add(s.ttl), s.maxBytes)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Signature: fields["x-amz-signature"],
		Timestamp: now.Unix(),
		CloudName: s.store.Bucket(),
		Provider:  "s3",
		UploadURL: u.String(),
		Fields:    fields,
		PublicURL: s.store.PublicURL(key),
	}, nil
}

func objectKey(now time.Time) string {
	return fmt.Sprintf("%s/%s", now.UTC().Format("2006/01"), uuid.NewString())
}
