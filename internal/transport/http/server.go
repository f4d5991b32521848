// Package http exposes the quickview JSON API over the checked dataset.
// The API is the reporting boundary of the checking pipeline: it serves the
// parsed record collections, the per-clock derived series, the batch
// diagnostics, and Prometheus metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/TheBIPM/check-bipm-data/internal/config"
	apierrors "github.com/TheBIPM/check-bipm-data/internal/errors"
	"github.com/TheBIPM/check-bipm-data/internal/dataprocessing"
	"github.com/TheBIPM/check-bipm-data/internal/infrastructure"
	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// Server serves the quickview API for one batch run. The dataset is
// immutable once the batch completes, so handlers read it without locking.
type Server struct {
	cfg     config.ServerConfig
	logger  *slog.Logger
	dataset *domain.Dataset
	diags   []dataprocessing.Diagnostic
	metrics *infrastructure.Metrics
}

// NewServer creates a quickview server over the given dataset.
func NewServer(cfg config.ServerConfig, logger *slog.Logger, dataset *domain.Dataset, diags []dataprocessing.Diagnostic, metrics *infrastructure.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: logger, dataset: dataset, diags: diags, metrics: metrics}
}

// Router builds the chi router with all quickview routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/dataset", s.handleDataset)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Get("/clocks", s.handleClocks)
		r.Get("/clocks/{code}/series", s.handleClockSeries)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("quickview server listening", slog.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleHealth reports server liveness and dataset shape.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":        "ok",
		"time":          time.Now().UTC().Format(time.RFC3339),
		"clocks":        len(s.dataset.Clocks),
		"clock_records": len(s.dataset.Records),
		"jump_records":  len(s.dataset.Jumps),
	})
}

// handleDataset returns the full structured dataset.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.dataset)
}

// handleDiagnostics returns the batch diagnostics in emission order.
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	diags := s.diags
	if diags == nil {
		diags = []dataprocessing.Diagnostic{}
	}
	render.JSON(w, r, diags)
}

// clockSummary is the per-clock entry of the clocks listing.
type clockSummary struct {
	ClockCode int `json:"clock_code"`
	Records   int `json:"records"`
	Jumps     int `json:"jumps"`
}

// handleClocks lists the distinct clocks with record and jump counts.
func (s *Server) handleClocks(w http.ResponseWriter, r *http.Request) {
	summaries := make([]clockSummary, 0, len(s.dataset.Clocks))
	for _, code := range s.dataset.Clocks {
		sum := clockSummary{ClockCode: code}
		for _, rec := range s.dataset.Records {
			if rec.ClockCode == code {
				sum.Records++
			}
		}
		for _, j := range s.dataset.Jumps {
			if j.ClockCode == code {
				sum.Jumps++
			}
		}
		summaries = append(summaries, sum)
	}
	render.JSON(w, r, summaries)
}

// handleClockSeries returns one derived series for one clock, selected by
// the kind (level, 1diff, 2diff) and corrected query parameters.
func (s *Server) handleClockSeries(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		render.Render(w, r, apierrors.InvalidParameterError("code", err))
		return
	}
	if !s.dataset.HasClock(code) {
		render.Render(w, r, apierrors.NotFoundError("clock"))
		return
	}

	kind := domain.SeriesKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = domain.SeriesLevel
	}
	switch kind {
	case domain.SeriesLevel, domain.SeriesFirstDiff, domain.SeriesSecondDiff:
	default:
		render.Render(w, r, apierrors.InvalidParameterError("kind", nil))
		return
	}

	corrected := false
	if raw := r.URL.Query().Get("corrected"); raw != "" {
		corrected, err = strconv.ParseBool(raw)
		if err != nil {
			render.Render(w, r, apierrors.InvalidParameterError("corrected", err))
			return
		}
	}

	series := s.dataset.SeriesFor(code, kind, corrected)
	if series == nil {
		render.Render(w, r, apierrors.NotFoundError("series"))
		return
	}
	render.JSON(w, r, series)
}
