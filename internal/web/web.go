// Package web serves the upload page: a server-rendered gallery plus the script
// that runs the credential → provider → save → refresh sequence in the browser.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/image"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// TimeLayout is how upload times are printed on the page.
const TimeLayout = "Jan 2, 2006 3:04:05 PM MST"

// Gallery is the read side the page needs.
type Gallery interface {
	Recent(ctx context.Context) ([]image.Record, error)
}

// Page renders the index page.
type Page struct {
	gallery Gallery
	tmpl    *template.Template
	loc     *time.Location
	now     func() time.Time
	log     *zap.Logger
}

type pageData struct {
	Images    []image.Record
	LoadError bool
}

// NewPage parses the embedded templates. Times are shown in loc (UTC when nil).
func NewPage(gallery Gallery, loc *time.Location, l *zap.Logger) (*Page, error) {
	if loc == nil {
		loc = time.UTC
	}
	p := &Page{gallery: gallery, loc: loc, now: time.Now, log: l}

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"formatTime": p.formatTime,
		"ago":        p.ago,
		"add1":       func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	p.tmpl = tmpl
	return p, nil
}

// ServeHTTP renders the page with the gallery loaded once at page load. A failed
// load still renders the form, with an empty gallery.
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := pageData{}
	records, err := p.gallery.Recent(r.Context())
	if err != nil {
		p.log.Error("load gallery for page", zap.Error(err))
		data.LoadError = true
	}
	data.Images = records

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		p.log.Error("render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (p *Page) formatTime(t time.Time) string {
	return t.In(p.loc).Format(TimeLayout)
}

func (p *Page) ago(t time.Time) string {
	return humanize.RelTime(t, p.now(), "ago", "from now")
}

// Static returns the embedded script and stylesheet, to be mounted under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
