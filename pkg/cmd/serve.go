package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/abiiranathan/lexicon/pkg/ai"
	"github.com/abiiranathan/lexicon/pkg/api"
	"github.com/abiiranathan/lexicon/pkg/cache"
	"github.com/abiiranathan/lexicon/pkg/config"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const numServerWorkers = 4

// RunServe initializes the logger, loads configuration, opens storage,
// wires the response cache and optional AI synthesizer, and runs the
// HTTP API server until ctx is cancelled.
func RunServe(ctx context.Context, flags *cmdFlags) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyServeFlags(cfg, flags)

	if cfg.Storage.ConnString == "" {
		return fmt.Errorf("storage connection string is required (--pgconn or PGCONN)")
	}

	store, err := storage.Open(ctx, cfg.Storage.ConnString, numServerWorkers, cfg.Storage.Partitioned)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer store.Close()

	respCache := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL)

	var synth *ai.Synthesizer
	if cfg.Gemini.APIKey != "" {
		synth = ai.New(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}

	apiSvc, err := api.New(api.Config{
		Listen:    cfg.Server.Listen,
		StaticDir: cfg.Server.StaticDir,
	}, store, respCache, synth)
	if err != nil {
		return fmt.Errorf("failed to create API service: %w", err)
	}

	if err := apiSvc.Run(ctx); err != nil {
		return fmt.Errorf("failed to run API service: %w", err)
	}

	return nil
}

// applyServeFlags layers the top-level CLI flags over the config loaded
// from environment/.env, giving explicit flags the final say.
func applyServeFlags(cfg *config.AppConfig, flags *cmdFlags) {
	if flags.PGConn != "" {
		cfg.Storage.ConnString = flags.PGConn
	}

	switch {
	case flags.Addr != "":
		cfg.Server.Listen = flags.Addr
	case flags.Port != 0:
		cfg.Server.Listen = net.JoinHostPort("", strconv.Itoa(flags.Port))
	}
}
