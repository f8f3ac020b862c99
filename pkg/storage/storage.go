// Package storage wraps Postgres access behind a small handle-oriented
// API: a shared pool for bootstrap and ad-hoc queries, plus a fixed set
// of dedicated connections ("worker handles") for server workers
// (indexing workers each acquire their own with NewHandle), so no two
// goroutines ever share a
// connection for transactional work.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abiiranathan/lexicon/internal/apperrors"
)

const (
	maxConnectAttempts = 5
	baseBackoff        = 200 * time.Millisecond
)

// Storage owns the shared connection pool and a fixed pool of dedicated
// worker connections acquired once at startup.
type Storage struct {
	pool    *pgxpool.Pool
	handles []*pgxpool.Conn
}

// Open connects to connString with exponential backoff (up to
// maxConnectAttempts), bootstraps the schema, and acquires numWorkers
// dedicated connections for later handle assignment. partitioned selects
// the pages table layout.
func Open(ctx context.Context, connString string, numWorkers int, partitioned bool) (*Storage, error) {
	pool, err := connectWithRetry(ctx, connString)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StorageFailure, "connect", err)
	}

	if _, err := pool.Exec(ctx, Schema(partitioned)); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(apperrors.StorageFailure, "bootstrap schema", err)
	}

	handles := make([]*pgxpool.Conn, 0, numWorkers)

	for i := 0; i < numWorkers; i++ {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			releaseAll(handles)
			pool.Close()

			return nil, apperrors.Wrap(apperrors.StorageFailure, fmt.Sprintf("acquire worker handle %d", i), err)
		}

		handles = append(handles, conn)
	}

	return &Storage{pool: pool, handles: handles}, nil
}

func connectWithRetry(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	var lastErr error

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pool, err := pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}

			pool.Close()
		}

		lastErr = err

		if attempt == maxConnectAttempts {
			break
		}

		backoff := baseBackoff * time.Duration(1<<uint(attempt-1))
		slog.WarnContext(ctx, "storage: connect attempt failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("exhausted %d connect attempts: %w", maxConnectAttempts, lastErr)
}

func releaseAll(handles []*pgxpool.Conn) {
	for _, h := range handles {
		h.Release()
	}
}

// Handle returns the dedicated connection bound to workerIndex. Callers
// must not share the returned connection across goroutines.
func (s *Storage) Handle(workerIndex int) *pgxpool.Conn {
	return s.handles[workerIndex%len(s.handles)]
}

// NumWorkerHandles reports how many dedicated worker handles were
// acquired at startup.
func (s *Storage) NumWorkerHandles() int {
	return len(s.handles)
}

// Pool returns the shared pool, for ad-hoc queries not bound to a
// specific worker handle.
func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases every worker handle and closes the shared pool.
func (s *Storage) Close() {
	releaseAll(s.handles)
	s.pool.Close()
}

// NewHandle acquires a fresh dedicated connection from the pool, for
// callers (indexing workers) that create and destroy their own handle
// for the life of a single unit of work rather than drawing from the
// fixed startup set.
func NewHandle(ctx context.Context, s *Storage) (*pgxpool.Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StorageFailure, "acquire handle", err)
	}

	return conn, nil
}
