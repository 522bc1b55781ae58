package uploader

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/image"
)

// State is where a Session is in its upload cycle.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file-selected"
	StateUploading    State = "uploading"
	StateSucceeded    State = "upload-succeeded"
	StateFailed       State = "upload-failed"
)

// Messages shown to the user.
const (
	MsgUploading  = "Uploading..."
	MsgSuccess    = "Image uploaded successfully!"
	MsgNoURL      = "Image upload failed."
	MsgCredential = "Could not get an upload credential."
	MsgProvider   = "An error occurred during upload."
	MsgPersist    = "The image was uploaded but could not be saved."
)

var (
	// ErrNoFile is returned by Submit when no file is selected.
	ErrNoFile = errors.New("no file selected")
	// ErrBusy is returned while an upload is in flight.
	ErrBusy = errors.New("upload already in progress")
)

// Session is one user's view of the gallery: the selected file, the status
// message, the last uploaded URL and the gallery window. It allows one upload
// at a time.
type Session struct {
	client *Client
	log    *zap.Logger

	mu        sync.Mutex
	state     State
	file      *File
	message   string
	resultURL string
	gallery   []image.Record
	lastErr   error
}

// NewSession returns an idle Session backed by client.
func NewSession(client *Client, l *zap.Logger) *Session {
	return &Session{client: client, log: l, state: StateIdle, gallery: []image.Record{}}
}

// Load fills the gallery from the server. On failure the gallery stays empty.
func (s *Session) Load(ctx context.Context) error {
	images, err := s.client.Images(ctx)
	if err != nil {
		s.log.Error("load gallery", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.gallery = images
	s.mu.Unlock()
	return nil
}

// Select chooses f for the next upload and clears the previous outcome.
func (s *Session) Select(f File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUploading {
		return ErrBusy
	}
	s.file = &f
	s.message = ""
	s.resultURL = ""
	s.lastErr = nil
	s.state = StateFileSelected
	return nil
}

// CanSubmit reports whether a file is selected and nothing is in flight.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil && s.state != StateUploading
}

// Submit runs the upload sequence for the selected file. No request is made
// when nothing is selected. The returned error is a *StepError or ErrNoURL when
// the attempt failed.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateUploading {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.file == nil {
		s.mu.Unlock()
		return ErrNoFile
	}
	f := *s.file
	s.state = StateUploading
	s.message = MsgUploading
	s.mu.Unlock()

	url, err := s.upload(ctx, f)
	if err != nil {
		s.fail(err)
		return err
	}

	images, err := s.client.Images(ctx)
	if err != nil {
		// The record exists; only the displayed window is stale.
		s.log.Warn("refresh gallery after upload", zap.Error(err))
	}

	s.mu.Lock()
	if err == nil {
		s.gallery = images
	}
	s.resultURL = url
	s.file = nil
	s.message = MsgSuccess
	s.lastErr = nil
	s.state = StateSucceeded
	s.mu.Unlock()
	return nil
}

func (s *Session) upload(ctx context.Context, f File) (string, error) {
	cred, err := s.client.FetchCredential(ctx)
	if err != nil {
		return "", err
	}

	url, err := s.client.UploadToProvider(ctx, cred, f)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", ErrNoURL
	}

	if _, err := s.client.SaveURL(ctx, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Session) fail(err error) {
	s.log.Error("upload failed", zap.Error(err))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.message = messageFor(err)
	s.state = StateFailed
}

func messageFor(err error) string {
	if errors.Is(err, ErrNoURL) {
		return MsgNoURL
	}
	var se *StepError
	if errors.As(err, &se) {
		switch se.Step {
		case StepCredential:
			return MsgCredential
		case StepPersist:
			return MsgPersist
		}
	}
	return MsgProvider
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message returns the status message, empty when there is none.
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// ResultURL returns the URL of the last successful upload.
func (s *Session) ResultURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultURL
}

// Gallery returns a copy of the displayed window, newest first.
func (s *Session) Gallery() []image.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]image.Record, len(s.gallery))
	copy(out, s.gallery)
	return out
}

// LastError returns the error of the last failed attempt.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
