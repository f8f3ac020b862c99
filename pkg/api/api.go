// Package api implements the HTTP server: parameter validation,
// storage/search/raster dispatch, and JSON shaping for every route in the
// service's external surface. Only search results go through the
// response cache; the other routes read storage directly.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/abiiranathan/lexicon/pkg/ai"
	"github.com/abiiranathan/lexicon/pkg/api/middleware"
	"github.com/abiiranathan/lexicon/pkg/cache"
	"github.com/abiiranathan/lexicon/pkg/search"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const (
	defaultTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds the API server's runtime configuration.
type Config struct {
	Listen    string `mapstructure:"listen"`
	StaticDir string `mapstructure:"static_dir"`
}

// API is the main HTTP server. Each request is dispatched against the
// per-worker storage handle assigned round-robin, matching the "one
// handle per worker, never shared" rule applied to the server path.
type API struct {
	config    Config
	store     *storage.Storage
	respCache *cache.Cache
	ai        *ai.Synthesizer

	numWorkers int
	workerSeq  atomic.Int64
}

// New constructs an API server. synth may be nil when no GEMINI_API_KEY
// is configured; every search response then carries ai_summary = null.
func New(cfg Config, store *storage.Storage, respCache *cache.Cache, synth *ai.Synthesizer) (*API, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address must be specified")
	}

	numWorkers := store.NumWorkerHandles()
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &API{
		config:     cfg,
		store:      store,
		respCache:  respCache,
		ai:         synth,
		numWorkers: numWorkers,
	}, nil
}

// nextWorker returns the next worker handle index, round-robin. Safe for
// concurrent use by overlapping HTTP requests.
func (a *API) nextWorker() int {
	n := a.workerSeq.Add(1) - 1
	return int(n % int64(a.numWorkers))
}

// searchEngine builds a search.Engine bound to the handle of the worker
// assigned to this request.
func (a *API) searchEngine() *search.Engine {
	conn := a.store.Handle(a.nextWorker())
	return search.NewEngine(conn, a.respCache, a.synthesizer())
}

func (a *API) synthesizer() search.Synthesizer {
	if a.ai == nil {
		return nil
	}

	return a.ai
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// gives in-flight requests a grace period before closing.
func (a *API) Run(ctx context.Context) error {
	s := &http.Server{
		Addr:              a.config.Listen,
		ReadHeaderTimeout: defaultTimeout,
		WriteTimeout:      defaultTimeout,
		Handler:           middleware.NewCORS()(a.newMux()),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.WarnContext(ctx, "shutting down API server")

		if err := s.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "graceful shutdown failed, forcing close", "error", err)

			if closeErr := s.Close(); closeErr != nil {
				slog.ErrorContext(ctx, "forced close failed", "error", closeErr)
			}
		}
	}()

	if err := s.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}
