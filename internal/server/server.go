package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/metrics"
	"github.com/claude/weeklog/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Options carries the settings handlers need beyond the tracker.
type Options struct {
	APIKey         string
	RecommendCount int
	ExportPath     string
	ExportFormat   export.Format
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	week   *tracker.Guarded
	log    *slog.Logger
	opts   Options
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(week *tracker.Guarded, opts Options, log *slog.Logger) *Server {
	if opts.RecommendCount <= 0 {
		opts.RecommendCount = tracker.DefaultRecommendCount
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatText
	}
	s := &Server{
		week:   week,
		log:    log,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe refreshes the activity gauge. Call it inside week.Do after a mutation.
func (s *Server) observe(t *tracker.Tracker) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Activities.Set(float64(t.Schedule().Total()))
	}
}

// Mount attaches another handler (e.g. the MCP endpoint) under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	if s.opts.Metrics != nil {
		s.router.Use(RequestMetrics(s.opts.Metrics))
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/days", s.handleWeek)
		r.Get("/days/{day}", s.handleDay)
		r.Get("/days/{day}/activities/{index}", s.handleActivity)
		r.Get("/days/{day}/fewest-reps", s.handleFewestReps)
		r.Get("/summary", s.handleSummary)
		r.Get("/durations", s.handleDurations)
		r.Get("/recommend/{group}", s.handleRecommend)
		r.Get("/export", s.handleExport)

		// Mutations (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.opts.APIKey))
			r.Post("/days/{day}/activities", s.handleAppend)
			r.Delete("/days/{day}/activities/{index}", s.handleDeleteActivity)
			r.Delete("/days/{day}", s.handleClearDay)
			r.Post("/import", s.handleImport)
			r.Post("/export", s.handleExportFile)
		})
	})
}
