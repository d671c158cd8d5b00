package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/roysafi/poll/docs"
	"github.com/roysafi/poll/internal/core/ports"
)

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// AdminTokens enables the /admin routes when set.
	AdminTokens ports.TokenVerifier
}

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, visitHandler *VisitHandler, adminHandler *AdminHandler, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(CORS(opts.AllowedOrigins))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/poll", func(r chi.Router) {
			r.Get("/", pollHandler.GetPoll)
			r.Post("/", voteHandler.VoteOnPoll)
			r.Get("/wards", pollHandler.GetWardBreakdown)
		})

		if visitHandler != nil {
			r.Post("/site/visit", visitHandler.RecordVisit)
		}
	})

	if adminHandler != nil && opts.AdminTokens != nil {
		r.Route("/admin/polls", func(r chi.Router) {
			r.Use(AdminAuth(opts.AdminTokens))
			r.Get("/", adminHandler.ListPolls)
			r.Post("/", adminHandler.CreatePoll)
			r.Post("/{id}/activate", adminHandler.ActivatePoll)
			r.Post("/{id}/deactivate", adminHandler.DeactivatePoll)
		})
	}

	return r
}
