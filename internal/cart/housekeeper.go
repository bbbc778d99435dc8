package cart

import (
	"context"

	slogctx "github.com/veqryn/slog-context"
)

// SweepOrphaned deletes the persisted carts belonging to the given owners and
// returns how many were removed. The housekeeper calls it with the client ids
// whose session just lapsed; carts of clients that never signed in stay until
// the storage retention period runs out.
func SweepOrphaned(ctx context.Context, repo Repository, owners []string) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}

	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	gone := make(map[string]struct{}, len(owners))
	for _, owner := range owners {
		gone[owner] = struct{}{}
	}

	deleted := 0
	for _, cartID := range ids {
		if _, ok := gone[cartID]; !ok {
			continue
		}

		if err := repo.Delete(ctx, cartID); err != nil {
			slogctx.Warn(ctx, "Could not delete orphaned cart", "cart_id", cartID, "error", err)
			continue
		}

		deleted++
	}

	return deleted, nil
}
