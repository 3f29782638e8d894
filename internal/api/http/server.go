// Package http is the development stand-in for the PixelSınav API. It speaks the
// {success, message, data} envelope the client forms expect.
package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pixelsinav/pixelsinav/internal/auth"
	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/metrics"
	"github.com/pixelsinav/pixelsinav/internal/rbac"
	"github.com/pixelsinav/pixelsinav/internal/storage"
	syncx "github.com/pixelsinav/pixelsinav/internal/sync"
)

type Server struct {
	DB      *sql.DB
	Docs    content.Store
	Events  *syncx.EventRepo
	Blobs   storage.BlobStore
	Auth    *auth.AuthService
	Metrics *metrics.Collector // optional
	Log     *slog.Logger

	CORSOrigins    []string
	LoginPerMinute int
	TokenTTL       time.Duration // verify and reset tokens

	guard *rbac.Guard
	now   func() time.Time
}

func NewServer(db *sql.DB, blobs storage.BlobStore, a *auth.AuthService) *Server {
	return &Server{
		DB:             db,
		Docs:           content.NewSQLStore(db),
		Events:         syncx.NewEventRepo(db),
		Blobs:          blobs,
		Auth:           a,
		Log:            slog.Default(),
		LoginPerMinute: 10,
		TokenTTL:       time.Hour,
		now:            time.Now,
	}
}

// Router builds the full handler tree.
func (s *Server) Router() http.Handler {
	s.guard = rbac.NewGuard(nil, func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, http.StatusForbidden, i18n.Forbidden)
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(i18n.Middleware)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Get("/files/*", s.serveFile)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.With(newLoginLimiter(s.LoginPerMinute).Middleware).Post("/login", s.login)
			a.Post("/register", s.register)
			a.Post("/forgot-password", s.forgotPassword)
			a.Post("/verify-email", s.requestVerification)
			a.Get("/verify-email/{token}", s.confirmVerification)
			a.Post("/reset-password/{token}", s.resetPassword)
			a.Group(func(pr chi.Router) {
				pr.Use(s.authenticated()...)
				pr.Post("/findOneById", s.findOneByID)
				pr.Put("/update", s.updateAccount)
			})
		})

		// public reads
		for _, c := range collections {
			api.Get("/"+c.name, s.listDocuments(c))
			api.Get("/"+c.name+"/{id}", s.getDocument(c))
		}

		api.Group(func(pr chi.Router) {
			pr.Use(s.authenticated()...)
			for _, c := range collections {
				pr.With(s.guard.Require(c.noun+":create")).Post("/"+c.name, s.createDocument(c))
				pr.Put("/"+c.name+"/{id}", s.updateDocument(c))
				pr.Delete("/"+c.name+"/{id}", s.deleteDocument(c))
			}
			pr.Put("/"+content.CollectionLessons+"/{id}/sections/{sectionID}/content", s.putSectionContent)

			pr.With(s.guard.Require("application:create")).Post("/"+content.CollectionApplications, s.createApplication)
			pr.With(s.guard.Require("application:review")).Get("/"+content.CollectionApplications, s.listApplications)

			pr.With(s.guard.Require("asset:upload")).Post("/assets", s.uploadAsset)
			pr.With(s.guard.Require("events:read")).Get("/events", s.listEvents)
		})
	})
	return r
}

func (s *Server) authenticated() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{auth.JWTMiddleware(s.Auth), auth.AttachRoleFromDB(s.DB)}
}
