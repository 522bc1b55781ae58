package web

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/image"
)

type stubGallery struct {
	records []image.Record
	err     error
}

func (g stubGallery) Recent(ctx context.Context) ([]image.Record, error) {
	return g.records, g.err
}

func render(t *testing.T, g Gallery) *httptest.ResponseRecorder {
	t.Helper()
	p, err := NewPage(g, nil, zap.NewNop())
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestPage_RendersGalleryNewestFirst(t *testing.T) {
	g := stubGallery{records: []image.Record{
		{ID: "2", URL: "https://img.example/b.png", UploadedAt: time.Date(2024, 5, 17, 11, 0, 0, 0, time.UTC)},
		{ID: "1", URL: "https://img.example/a.png", UploadedAt: time.Date(2024, 5, 16, 12, 0, 0, 0, time.UTC)},
	}}

	rec := render(t, g)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	b := strings.Index(body, "https://img.example/b.png")
	a := strings.Index(body, "https://img.example/a.png")
	require.NotEqual(t, -1, a)
	require.NotEqual(t, -1, b)
	assert.Less(t, b, a)

	assert.Contains(t, body, `alt="Uploaded image 1"`)
	assert.Contains(t, body, `alt="Uploaded image 2"`)
	assert.Contains(t, body, "May 17, 2024 11:00:00 AM UTC")
	assert.Contains(t, body, "1 hour ago")
	assert.Contains(t, body, `datetime="2024-05-16T12:00:00.000Z"`)
	assert.Contains(t, body, `<p id="emptyGallery" hidden>`)
}

func TestPage_EmptyGallery(t *testing.T) {
	rec := render(t, stubGallery{records: []image.Record{}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No images uploaded yet.")
	assert.Contains(t, body, `<div id="imagesGrid" class="images-grid" hidden>`)
	assert.NotContains(t, body, `<p id="emptyGallery" hidden>`)
	assert.NotContains(t, body, "Could not load images.")
}

func TestPage_LoadFailureStillRendersForm(t *testing.T) {
	rec := render(t, stubGallery{err: errors.New("connection refused")})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="uploadForm"`)
	assert.Contains(t, body, "Could not load images.")
	assert.Contains(t, body, "No images uploaded yet.")
	assert.NotContains(t, body, "connection refused")
}

func TestPage_SubmitStartsDisabled(t *testing.T) {
	rec := render(t, stubGallery{})
	assert.Contains(t, rec.Body.String(), `<button type="submit" id="uploadButton" class="button" disabled>`)
}

func TestPage_UnsafeURLIsNeutralized(t *testing.T) {
	rec := render(t, stubGallery{records: []image.Record{
		{ID: "1", URL: "javascript:alert(1)", UploadedAt: time.Now()},
	}})

	assert.NotContains(t, rec.Body.String(), "javascript:alert(1)")
}

func TestStatic(t *testing.T) {
	srv := httptest.NewServer(http.StripPrefix("/static/", Static()))
	defer srv.Close()

	tests := []struct {
		path     string
		wantType string
		contains string
	}{
		{path: "/static/app.js", wantType: "text/javascript", contains: "/api/upload-signature"},
		{path: "/static/style.css", wantType: "text/css", contains: ".images-grid"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer res.Body.Close()

			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Contains(t, res.Header.Get("Content-Type"), tt.wantType)
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.contains)
		})
	}

	res, err := http.Get(srv.URL + "/static/missing.js")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPage_ScriptCardsMatchServerCards(t *testing.T) {
	rec := render(t, stubGallery{records: []image.Record{
		{ID: "1", URL: "https://img.example/a.png", UploadedAt: time.Date(2024, 5, 17, 11, 0, 0, 0, time.UTC)},
	}})
	require.Contains(t, rec.Body.String(), `<span class="ago">1 hour ago</span>`)

	script, err := fs.ReadFile(staticFS, "static/app.js")
	require.NoError(t, err)
	for _, want := range []string{"'image-card'", "'upload-date'", "'ago'", "relTime("} {
		assert.Contains(t, string(script), want)
	}
}
