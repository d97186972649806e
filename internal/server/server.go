// Package server re-serves the normalized dataset over read-only JSON
// endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"miniatlas/internal/dataset"
	"miniatlas/internal/domain"
	"miniatlas/internal/observability"
	"miniatlas/internal/search"
)

const shutdownTimeout = 10 * time.Second

// Handlers serves the dataset. Everything it touches is read-only after
// construction, so one value serves all requests.
type Handlers struct {
	data     *dataset.Dataset
	ranker   *search.Ranker
	regions  []domain.RegionGroup
	insights domain.Insights
}

// NewHandlers precomputes the region and insight payloads
func NewHandlers(data *dataset.Dataset, ranker *search.Ranker) *Handlers {
	if ranker == nil {
		ranker = search.NewRanker("en")
	}
	return &Handlers{
		data:     data,
		ranker:   ranker,
		regions:  dataset.Regions(data.Countries),
		insights: dataset.Summarize(data.Countries),
	}
}

// Routes registers the dataset endpoints
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/countries", h.listCountries)
		r.Get("/countries/{code}", h.getCountry)
		r.Get("/search", h.searchCountries)
		r.Get("/regions", h.listRegions)
		r.Get("/insights", h.getInsights)
	})
}

// NewRouter builds the middleware stack around h
func NewRouter(h *Handlers, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, NewError("not_found", "no such endpoint", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, NewError("method_not_allowed", "the dataset is read-only", http.StatusMethodNotAllowed))
	})

	h.Routes(r)
	return r
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"countries": len(h.data.Countries),
	})
}

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	countries := h.data.Countries
	if countries == nil {
		countries = []domain.Country{}
	}
	writeJSON(w, http.StatusOK, countries)
}

func (h *Handlers) getCountry(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	country, ok := h.data.Lookup(code)
	if !ok {
		WriteError(r.Context(), w, NewError("country_not_found", fmt.Sprintf("no country with code %q", code), http.StatusNotFound))
		return
	}
	writeJSON(w, http.StatusOK, country)
}

func (h *Handlers) searchCountries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, h.ranker.Rank(h.data.Countries, query))
}

func (h *Handlers) listRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.regions)
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.insights)
}

// Options configures the listening server
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Run serves handler until ctx is cancelled, then drains in-flight requests
func Run(ctx context.Context, handler http.Handler, opts Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	serverLogger := logger.Named("http").With(zap.String("addr", srv.Addr))
	errCh := make(chan error, 1)
	go func() {
		serverLogger.Info("miniatlas api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	serverLogger.Info("shutdown requested; draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
