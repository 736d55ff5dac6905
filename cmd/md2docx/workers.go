package main

import (
	"errors"
	"fmt"
	"runtime"
)

// maxWorkers bounds concurrent pandoc processes.
const maxWorkers = 32

// ErrInvalidWorkerCount is returned for out-of-range --workers values.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the number of concurrent conversions.
// Priority: explicit flag > MD2DOCX_WORKERS > GOMAXPROCS-based calculation.
func resolveWorkers(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return min(envWorkers, maxWorkers)
	}

	// Half of GOMAXPROCS (adjusted by automaxprocs), clamped to 1..8.
	n := runtime.GOMAXPROCS(0) / 2
	return max(1, min(n, 8))
}
