// Package uploader is a Go client for the gallery API. It runs the same upload
// sequence the browser page runs: fetch a credential, post the file straight to
// the media host, record the returned URL, refresh the gallery.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/uploadgallery/service/internal/image"
	"github.com/uploadgallery/service/internal/signature"
)

// Step names one stage of an upload attempt.
type Step string

const (
	StepCredential     Step = "credential"
	StepProviderUpload Step = "provider-upload"
	StepPersist        Step = "persist"
	StepRefresh        Step = "refresh"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// ErrNoURL means the media host accepted the request but named no stored object.
var ErrNoURL = errors.New("provider response carried no url")

// StepError records which stage of the sequence failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the gallery API or the media host.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// File is an image chosen for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Client talks to one gallery server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the server at baseURL. A nil hc means http.DefaultClient.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// FetchCredential asks the server for a fresh upload credential.
func (c *Client) FetchCredential(ctx context.Context) (*signature.Credential, error) {
	var cred signature.Credential
	if err := c.doJSON(ctx, http.MethodGet, "/api/upload-signature", nil, &cred); err != nil {
		return nil, &StepError{Step: StepCredential, Err: err}
	}
	if cred.UploadURL == "" {
		return nil, &StepError{Step: StepCredential, Err: errors.New("credential has no upload url")}
	}
	return &cred, nil
}

// UploadToProvider posts f to the media host with the credential's form fields
// and returns the public URL of the stored image.
func (c *Client) UploadToProvider(ctx context.Context, cred *signature.Credential, f File) (string, error) {
	url, err := c.uploadToProvider(ctx, cred, f)
	if err != nil {
		return "", &StepError{Step: StepProviderUpload, Err: err}
	}
	return url, nil
}

func (c *Client) uploadToProvider(ctx context.Context, cred *signature.Credential, f File) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range cred.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	// The file part goes last: S3 POST policies ignore fields that follow it.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = http.DetectContentType(f.Data)
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post to provider: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read provider response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &APIError{Status: res.StatusCode, Message: providerMessage(raw)}
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	// S3 answers with an empty body or XML; only Cloudinary-style JSON names the URL.
	_ = json.Unmarshal(raw, &out)
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	return cred.PublicURL, nil
}

// SaveURL records url on the server and returns the new record's id.
func (c *Client) SaveURL(ctx context.Context, url string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	in := struct {
		URL string `json:"url"`
	}{URL: url}
	if err := c.doJSON(ctx, http.MethodPost, "/api/save-image-url", in, &out); err != nil {
		return "", &StepError{Step: StepPersist, Err: err}
	}
	return out.ID, nil
}

// Images returns the server's recent window, newest first.
func (c *Client) Images(ctx context.Context) ([]image.Record, error) {
	var out struct {
		Images []image.Record `json:"images"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/get-images", nil, &out); err != nil {
		return nil, &StepError{Step: StepRefresh, Err: err}
	}
	return out.Images, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&msg)
		return &APIError{Status: res.StatusCode, Message: msg.Message}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func providerMessage(raw []byte) string {
	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err == nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
