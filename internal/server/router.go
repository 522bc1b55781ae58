// Package server assembles the HTTP surface: middleware, API routes, the page
// and the Swagger UI.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	appMiddleware "github.com/uploadgallery/service/internal/middleware"
	"github.com/uploadgallery/service/internal/image"
	"github.com/uploadgallery/service/internal/response"
	"github.com/uploadgallery/service/internal/signature"
	"github.com/uploadgallery/service/internal/web"
)

// Deps are the handlers the router mounts.
type Deps struct {
	Signature      *signature.Handler
	Images         *image.Handler
	Page           *web.Page
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the application router.
func NewRouter(d Deps) http.Handler {
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(d.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	// Swagger UI at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if d.Page != nil {
		r.Get("/", d.Page.ServeHTTP)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/upload-signature", d.Signature.UploadSignature)
		r.Post("/save-image-url", d.Images.SaveImageURL)
		r.Get("/get-images", d.Images.GetImages)
	})

	return r
}
