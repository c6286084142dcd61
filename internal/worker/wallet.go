package worker

import (
	"context"
	"log/slog"
	"time"
)

// Refresher reloads remote state once.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AfterRefreshHook is called after each successful refresh.
type AfterRefreshHook interface {
	AfterRefresh(ctx context.Context) error
}

// WalletWorker periodically refreshes the wallet view.
type WalletWorker struct {
	refresher Refresher
	interval  time.Duration
	hook      AfterRefreshHook // optional
}

// NewWalletWorker creates a new WalletWorker with an optional post-refresh hook.
func NewWalletWorker(refresher Refresher, interval time.Duration, hook AfterRefreshHook) *WalletWorker {
	return &WalletWorker{
		refresher: refresher,
		interval:  interval,
		hook:      hook,
	}
}

// runHook calls the post-refresh hook if one is configured.
func (w *WalletWorker) runHook(ctx context.Context) {
	if w.hook == nil {
		return
	}
	if err := w.hook.AfterRefresh(ctx); err != nil {
		slog.Error("WalletWorker: after-refresh hook failed", "error", err)
	}
}

func (w *WalletWorker) tick(ctx context.Context, initial bool) {
	if err := w.refresher.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		if initial {
			slog.Error("WalletWorker: initial refresh failed", "error", err)
		} else {
			slog.Error("WalletWorker: refresh failed", "error", err)
		}
		return
	}
	slog.Debug("WalletWorker: refresh completed")
	w.runHook(ctx)
}

// Run starts the refresh loop. It blocks until the context is cancelled.
// A failed refresh is not retried before the next tick.
func (w *WalletWorker) Run(ctx context.Context) {
	slog.Info("WalletWorker: starting", "interval", w.interval)

	// Refresh immediately on startup
	w.tick(ctx, true)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("WalletWorker: shutting down")
			return
		case <-ticker.C:
			w.tick(ctx, false)
		}
	}
}

// Start runs the worker on its own goroutine and returns a stop func that
// cancels it and waits for the loop to exit. stop is safe to call twice.
func (w *WalletWorker) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
