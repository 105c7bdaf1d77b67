package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jeuanimo/expensegate/internal/core/session"
)

// StartSessionReaper sweeps expired sessions out of the store on an
// interval. Validation already rejects expired sessions on use; the
// reaper keeps abandoned ones from piling up in the store.
func StartSessionReaper(store session.Store, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		slog.Info("👷 Session reaper started", "interval", interval)
		for {
			sweep(store)
			time.Sleep(interval)
		}
	}()
}

func sweep(store session.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := store.DeleteExpired(ctx)
	if err != nil {
		slog.Error("Reaper: failed to delete expired sessions", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("🧹 Reaper: expired sessions removed", "count", removed)
	}
}
