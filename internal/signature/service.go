// Package signature issues short-lived upload credentials so browsers can send
// images straight to the media host without ever seeing the provider secret.
package signature

import (
	"context"
	"fmt"
	"time"
)

// Credential is everything the browser needs for one direct upload.
type Credential struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`

	Provider  string `json:"provider"`
	UploadURL string `json:"uploadUrl"`
	// Fields are the multipart form fields to send ahead of the file part.
	Fields map[string]string `json:"fields"`
	// PublicURL is set when the provider's response will not name the stored object.
	PublicURL string `json:"publicUrl,omitempty"`
}

// Signer produces a credential valid from now.
type Signer interface {
	Sign(ctx context.Context, now time.Time) (*Credential, error)
}

// Service contains the logic for issuing upload credentials.
type Service struct {
	signer Signer
	now    func() time.Time
}

// NewService creates a new signature Service. A nil clock means time.Now.
func NewService(signer Signer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{signer: signer, now: now}
}

// Issue signs a fresh credential for the current time.
func (s *Service) Issue(ctx context.Context) (*Credential, error) {
	cred, err := s.signer.Sign(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}
	return cred, nil
}
