package cron

import (
	"context"
	"log/slog"
	"time"
)

const PruneRevokedInterval = time.Hour

// RevocationPruner drops revoked tokens that have expired anyway.
type RevocationPruner interface {
	PruneRevoked() int
}

// RegisterHousekeeping adds the periodic in-memory cleanup jobs.
func RegisterHousekeeping(s *Scheduler, revocations RevocationPruner) {
	s.AddJob("prune_revoked_tokens", PruneRevokedInterval, func(ctx context.Context) error {
		if n := revocations.PruneRevoked(); n > 0 {
			slog.Info("Pruned expired token revocations", "count", n)
		}
		return nil
	})
}
