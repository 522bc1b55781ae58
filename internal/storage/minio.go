package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use MinioStorage.
// An empty region makes the client look the bucket location up on first use.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, region, bucket, publicBase string, useSSL bool, l *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		l.Info("storage: created bucket", zap.String("bucket", bucket))
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// PresignUpload builds a POST policy for exactly one key.
func (s *MinioStorage) PresignUpload(ctx context.Context, key string, expires time.Time, maxBytes int64) (*url.URL, map[string]string, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(s.bucket); err != nil {
		return nil, nil, fmt.Errorf("policy bucket: %w", err)
	}
	if err := policy.SetKey(key); err != nil {
		return nil, nil, fmt.Errorf("policy key: %w", err)
	}
	if err := policy.SetExpires(expires.UTC()); err != nil {
		return nil, nil, fmt.Errorf("policy expiry: %w", err)
	}
	if maxBytes > 0 {
		if err := policy.SetContentLengthRange(1, maxBytes); err != nil {
			return nil, nil, fmt.Errorf("policy size range: %w", err)
		}
	}

	u, fields, err := s.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return nil, nil, fmt.Errorf("presign post policy for %q: %w", key, err)
	}
	return u, fields, nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/uploads/2024/05/<uuid>"
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// Bucket returns the bucket name.
func (s *MinioStorage) Bucket() string {
	return s.bucket
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
