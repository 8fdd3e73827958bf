package trains

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kilianp07/trainyard/core/logger"
)

// NewRouter builds the chi router with CORS, rate limiting and optional
// bearer authentication on /api.
func NewRouter(h *Handler, cfg Config, log logger.Logger, rl *RateLimiter) *chi.Mux {
	cfg.SetDefaults()
	if rl == nil {
		rl = NewRateLimiter(cfg.RateLimit)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization"},
	}))
	r.Use(rl.Middleware)

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Use(bearerAuth(cfg.Token))
		r.Get("/trains", h.ListTrains)
		r.Get("/trains/summary", h.Summary)
		r.Get("/journal", h.QueryJournal)
	})
	return r
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("http request", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
		})
	}
}

// Serve runs the API on cfg.Addr until ctx is canceled.
func Serve(ctx context.Context, cfg Config, h *Handler, log logger.Logger) error {
	rl := NewRateLimiter(cfg.RateLimit)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(h, cfg, log, rl),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Errorf("api shutdown: %v", err)
				}
				cancel()
				return
			case <-ticker.C:
				rl.Prune(10 * time.Minute)
			}
		}
	}()
	log.Infof("api listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
