package business

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/cart"
	cartvalkey "github.com/shopfront/storefront-manager/internal/cart/valkey"
	"github.com/shopfront/storefront-manager/internal/config"
	"github.com/shopfront/storefront-manager/internal/session"
	sessionvalkey "github.com/shopfront/storefront-manager/internal/session/valkey"
)

// HousekeeperMain starts the house keeping jobs
func HousekeeperMain(ctx context.Context, cfg *config.Config) error {
	valkeyClient, err := openValKey(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise the valkey client: %w", err)
	}
	defer valkeyClient.Close()

	sessionRepo := sessionvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix)
	cartRepo := cartvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix, cfg.Storefront.CartRetention)

	// Start the housekeeper loop
	c := time.Tick(cfg.Housekeeper.TriggerInterval)
	for {
		swept, err := session.SweepExpired(ctx, sessionRepo, time.Now())
		if err != nil {
			slogctx.Error(ctx, "Error during session housekeeping", "error", err)
		} else if len(swept) > 0 {
			slogctx.Info(ctx, "Swept expired sessions", "count", len(swept))

			// A lapsed session orphans its cart; drop it along with the session.
			deleted, err := cart.SweepOrphaned(ctx, cartRepo, swept)
			if err != nil {
				slogctx.Error(ctx, "Error during cart housekeeping", "error", err)
			} else if deleted > 0 {
				slogctx.Info(ctx, "Swept orphaned carts", "count", deleted)
			}
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}
