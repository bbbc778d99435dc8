package session

import (
	"context"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

// SweepExpired deletes persisted sessions whose expiry has passed and
// returns the client ids that were swept. It complements the lazy read-path
// check for repositories that do not expire keys on their own.
func SweepExpired(ctx context.Context, repo Repository, now time.Time) ([]string, error) {
	sessions, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var swept []string
	for clientID, s := range sessions {
		if !s.ExpiredAt(now) {
			continue
		}

		if err := repo.Delete(ctx, clientID); err != nil {
			slogctx.Warn(ctx, "Could not delete expired session", "client_id", clientID, "error", err)
			continue
		}

		swept = append(swept, clientID)
	}

	return swept, nil
}
