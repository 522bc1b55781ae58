package signature

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// CloudinarySigner signs uploads with Cloudinary's api_sign_request scheme.
type CloudinarySigner struct {
	cloudName string
	apiKey    string
	apiSecret string
	apiBase   string
}

// NewCloudinarySigner creates a signer for one Cloudinary account. apiBase is the
// versioned API root, normally "https://api.cloudinary.com/v1_1".
func NewCloudinarySigner(cloudName, apiKey, apiSecret, apiBase string) *CloudinarySigner {
	return &CloudinarySigner{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		apiBase:   strings.TrimRight(apiBase, "/"),
	}
}

// Sign signs {timestamp}, with the timestamp rounded to the nearest second.
func (s *CloudinarySigner) Sign(ctx context.Context, now time.Time) (*Credential, error) {
	ts := now.Round(time.Second).Unix()
	tsStr := strconv.FormatInt(ts, 10)

	sig, err := api.SignParameters(url.Values{"timestamp": {tsStr}}, s.apiSecret)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Signature: sig,
		Timestamp: ts,
		CloudName: s.cloudName,
		APIKey:    s.apiKey,
		Provider:  "cloudinary",
		UploadURL: s.apiBase + "/" + url.PathEscape(s.cloudName) + "/image/upload",
		Fields: map[string]string{
			"api_key":   s.apiKey,
			"timestamp": tsStr,
			"signature": sig,
		},
	}, nil
}
