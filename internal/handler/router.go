package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RouterOptions ルーター全体の設定
type RouterOptions struct {
	AllowedOrigins    []string
	RequestsPerSecond int
}

// NewRouter APIのルーティングを設定
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	router := chi.NewRouter()

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.RequestsPerSecond > 0 {
		router.Use(httprate.LimitByIP(opts.RequestsPerSecond, time.Second))
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(h.logger))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, "ok", nil)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/week", h.GetWeek)
		r.Get("/slots", h.GetSlots)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Get("/{date}", h.GetHoliday)
		})

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", h.ListCandidates)
			r.Post("/", h.CreateCandidate)
			r.Delete("/", h.ResetCandidates)
			r.Post("/full-day", h.ToggleFullDay)
			r.Post("/remove-merged", h.RemoveMerged)
			r.Get("/merged", h.ListMerged)
			r.Get("/conflicts", h.ListConflicts)
			r.Get("/text", h.GetText)
			r.Get("/export", h.ExportCandidates)
			r.Post("/share", h.ShareCandidates)
			r.Put("/{id}", h.UpdateCandidate)
			r.Delete("/{id}", h.DeleteCandidate)
		})
	})

	return router
}

// requestLogger リクエストごとのアクセスログ
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
