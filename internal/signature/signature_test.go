package signature

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestCloudinarySigner_Sign(t *testing.T) {
	s := NewCloudinarySigner("demo", "123456789", "shh", "https://api.cloudinary.com/v1_1/")

	cred, err := s.Sign(context.Background(), time.Unix(1700000000, 0))
	require.NoError(t, err)

	want := sha1Hex("timestamp=1700000000shh")
	assert.Equal(t, want, cred.Signature)
	assert.Equal(t, int64(1700000000), cred.Timestamp)
	assert.Equal(t, "demo", cred.CloudName)
	assert.Equal(t, "123456789", cred.APIKey)
	assert.Equal(t, "cloudinary", cred.Provider)
	assert.Equal(t, "https://api.cloudinary.com/v1_1/demo/image/upload", cred.UploadURL)
	assert.Equal(t, map[string]string{
		"api_key":   "123456789",
		"timestamp": "1700000000",
		"signature": want,
	}, cred.Fields)
	assert.Empty(t, cred.PublicURL)
}

func TestCloudinarySigner_RoundsTimestamp(t *testing.T) {
	s := NewCloudinarySigner("demo", "k", "shh", "https://api.cloudinary.com/v1_1")

	down, err := s.Sign(context.Background(), time.Unix(1700000000, 400*int64(time.Millisecond)))
	require.NoError(t, err)
	up, err := s.Sign(context.Background(), time.Unix(1700000000, 600*int64(time.Millisecond)))
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000), down.Timestamp)
	assert.Equal(t, int64(1700000001), up.Timestamp)
}

func TestCloudinarySigner_FreshTimestampChangesSignature(t *testing.T) {
	s := NewCloudinarySigner("demo", "k", "shh", "https://api.cloudinary.com/v1_1")

	a, err := s.Sign(context.Background(), time.Unix(1700000000, 0))
	require.NoError(t, err)
	b, err := s.Sign(context.Background(), time.Unix(1700000060, 0))
	require.NoError(t, err)

	assert.NotEqual(t, a.Signature, b.Signature)
}

type fakeStorage struct {
	key      string
	expires  time.Time
	maxBytes int64
	err      error
}

func (f *fakeStorage) PresignUpload(ctx context.Context, key string, expires time.Time, maxBytes int64) (*url.URL, map[string]string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.key, f.expires, f.maxBytes = key, expires, maxBytes
	return &url.URL{Scheme: "http", Host: "minio:9000", Path: "/uploads"}, map[string]string{
		"key":             key,
		"policy":          "eyJleHBpcmF0aW9uIjoi",
		"x-amz-signature": "deadbeef",
	}, nil
}

func (f *fakeStorage) PublicURL(key string) string { return "http://cdn.local/" + key }
func (f *fakeStorage) Bucket() string              { return "uploads" }

func TestS3Signer_Sign(t *testing.T) {
	store := &fakeStorage{}
	s := NewS3Signer(store, 10*time.Minute, 5<<20)
	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

	cred, err := s.Sign(context.Background(), now)
	require.NoError(t, err)

	assert.Regexp(t, `^2024/05/[0-9a-f-]{36}$`, store.key)
	assert.Equal(t, now.Add(10*time.Minute), store.expires)
	assert.Equal(t, int64(5<<20), store.maxBytes)

	assert.Equal(t, "s3", cred.Provider)
	assert.Equal(t, "deadbeef", cred.Signature)
	assert.Equal(t, now.Unix(), cred.Timestamp)
	assert.Equal(t, "uploads", cred.CloudName)
	assert.Empty(t, cred.APIKey)
	assert.Equal(t, "http://minio:9000/uploads", cred.UploadURL)
	assert.Equal(t, "http://cdn.local/"+store.key, cred.PublicURL)
	assert.Equal(t, store.key, cred.Fields["key"])
}

func TestS3Signer_KeysAreUnique(t *testing.T) {
	store := &fakeStorage{}
	s := NewS3Signer(store, time.Minute, 0)
	now := time.Now()

	a, err := s.Sign(context.Background(), now)
	require.NoError(t, err)
	b, err := s.Sign(context.Background(), now)
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicURL, b.PublicURL)
}

func TestHandler_UploadSignature(t *testing.T) {
	svc := NewService(NewCloudinarySigner("demo", "123", "shh", "https://api.cloudinary.com/v1_1"), fixedClock(time.Unix(1700000000, 0)))
	h := NewHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.UploadSignature(rec, httptest.NewRequest(http.MethodGet, "/api/upload-signature", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sha1Hex("timestamp=1700000000shh"), body["signature"])
	assert.EqualValues(t, 1700000000, body["timestamp"])
	assert.Equal(t, "demo", body["cloudName"])
	assert.Equal(t, "123", body["apiKey"])
	assert.NotContains(t, rec.Body.String(), "shh", "secret must never leave the server")
}

func TestHandler_UploadSignature_SignerFailure(t *testing.T) {
	svc := NewService(NewS3Signer(&fakeStorage{err: errors.New("bucket location unavailable")}, time.Minute, 0), nil)
	h := NewHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.UploadSignature(rec, httptest.NewRequest(http.MethodGet, "/api/upload-signature", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to create upload signature.", body["message"])
	assert.Contains(t, body["error"], "bucket location unavailable")
}
