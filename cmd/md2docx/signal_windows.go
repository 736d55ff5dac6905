//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownSignals end a run. Windows only delivers os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context canceled on Ctrl+C.
// Canceling it kills any running pandoc process.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
