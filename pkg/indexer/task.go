package indexer

import "sync/atomic"

// task is an in-flight indexing unit of work, handed off from the
// walker to a pool worker. The worker owns it end-to-end: opens the
// PDF, runs its own transaction, and reports success by flipping
// globalSuccess if anything goes wrong.
type task struct {
	path              string
	name              string
	fileID            int64
	expectedPageCount int

	globalSuccess *atomic.Bool
}
