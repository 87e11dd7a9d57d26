package http

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/httpjson"
)

type Options struct {
	Workflow       *grievance.Workflow
	Sessions       *grievance.Sessions
	AllowedOrigins []string
	LogLevel       slog.Level
	LogJSON        bool
	StatsInterval  time.Duration
	SessionIdle    time.Duration // unused sessions are dropped after this, 24h if unset
	// Logger receives server lifecycle and stats lines.
	Logger *slog.Logger
}

type HttpServer struct {
	workflow    *grievance.Workflow
	sessions    *grievance.Sessions
	sessionIdle time.Duration
	router      *chi.Mux
	stats       *statsLogger
	log         *slog.Logger
	portal      *template.Template
}

func NewHttpServer(opts Options) *HttpServer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	router := chi.NewRouter()

	reqLogger := httplog.NewLogger("grievance-portal", httplog.Options{
		LogLevel:         opts.LogLevel,
		JSON:             opts.LogJSON,
		Concise:          true,
		MessageFieldName: "message",
		Tags: map[string]string{
			"service": "grievance-portal",
		},
	})

	stats := newStatsLogger(log, opts.StatsInterval)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httplog.RequestLogger(reqLogger))
	router.Use(middleware.Recoverer)
	router.Use(stats.middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		// a wildcard must not be combined with credentials
		AllowCredentials: !slices.Contains(opts.AllowedOrigins, "*"),
		MaxAge:           300,
	}))
	router.Use(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})

	sessionIdle := opts.SessionIdle
	if sessionIdle <= 0 {
		sessionIdle = 24 * time.Hour
	}

	server := &HttpServer{
		workflow:    opts.Workflow,
		sessions:    opts.Sessions,
		sessionIdle: sessionIdle,
		router:      router,
		stats:       stats,
		log:         log,
		portal:      portalTemplate,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Get("/healthz", httpserver.health)

	r.Group(func(r chi.Router) {
		r.Use(httpserver.sessionMiddleware(false))
		r.Get("/", httpserver.showPortal)
		r.Get("/api/session", httpserver.getSession)
		r.Post("/api/validate", httpserver.validateDraft)
		r.Post("/api/grievances", httpserver.createGrievance)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpserver.sessionMiddleware(true))
		r.Post("/", httpserver.submitPortal)
		r.Post("/api/session", httpserver.getSession)
	})
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

// Start serves on address until ctx is cancelled, then shuts down
// gracefully.
func (httpserver *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           httpserver.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go httpserver.stats.run(statsCtx)
	go httpserver.sweepSessions(statsCtx)

	errCh := make(chan error, 1)
	go func() {
		httpserver.log.Info("starting server", "address", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		httpserver.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		httpserver.stats.flushStats()
		return nil
	}
}

func (httpserver *HttpServer) health(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
