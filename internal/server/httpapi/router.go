// Package httpapi is the JSON-over-HTTP transport of the diary service.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Diary is the service surface the handlers call.
type Diary interface {
	GetDay(ctx context.Context, userID, date string) (*models.Day, error)
	SaveEntry(ctx context.Context, userID, date, content string) (*models.Entry, error)
	UploadImage(ctx context.Context, userID, date string, data []byte, originalName, caption string) (*models.Placement, error)
	MoveImage(ctx context.Context, userID, filename string, patch models.PlacementPatch) error
	RemoveImage(ctx context.Context, userID, filename string) error
	OpenImage(ctx context.Context, userID, filename string) (io.ReadCloser, *models.Placement, error)
}

// Options configures NewRouter.
type Options struct {
	// SecretKey verifies bearer tokens.
	SecretKey []byte
	// MaxUploadBytes caps the image part of an upload.
	MaxUploadBytes int64
	// Ready backs /healthz; nil means always ready.
	Ready func(context.Context) error
}

type handlers struct {
	diary  Diary
	logger logging.Logger
	opts   Options
}

// NewRouter builds the chi router:
//
//	GET    /healthz
//	GET    /api/diary/{date}
//	POST   /api/diary/{date}
//	POST   /api/images
//	GET    /api/images/{filename}
//	PATCH  /api/images/{filename}
//	DELETE /api/images/{filename}
func NewRouter(diary Diary, logger logging.Logger, opts Options) http.Handler {
	h := &handlers{diary: diary, logger: logger.With("module", "http"), opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authJWT)
		r.Route("/diary/{date}", func(r chi.Router) {
			r.Get("/", h.getDay)
			r.Post("/", h.saveEntry)
		})
		r.Route("/images", func(r chi.Router) {
			r.Post("/", h.uploadImage)
			r.Route("/{filename}", func(r chi.Router) {
				r.Get("/", h.openImage)
				r.Patch("/", h.moveImage)
				r.Delete("/", h.removeImage)
			})
		})
	})

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}
