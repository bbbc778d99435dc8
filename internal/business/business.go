package business

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"

	"github.com/shopfront/storefront-manager/internal/business/server"
	cartvalkey "github.com/shopfront/storefront-manager/internal/cart/valkey"
	"github.com/shopfront/storefront-manager/internal/catalog"
	catalogsql "github.com/shopfront/storefront-manager/internal/catalog/sql"
	"github.com/shopfront/storefront-manager/internal/checkout"
	"github.com/shopfront/storefront-manager/internal/config"
	"github.com/shopfront/storefront-manager/internal/order"
	ordersql "github.com/shopfront/storefront-manager/internal/order/sql"
	"github.com/shopfront/storefront-manager/internal/session"
	sessionvalkey "github.com/shopfront/storefront-manager/internal/session/valkey"
	"github.com/shopfront/storefront-manager/internal/user"
	usersql "github.com/shopfront/storefront-manager/internal/user/sql"
)

// Main starts the public storefront API server.
func Main(ctx context.Context, cfg *config.Config) error {
	deps, closeFn, err := initStorefront(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the storefront: %w", err)
	}

	defer closeFn()

	return server.StartHTTPServer(ctx, cfg, deps.handler)
}

type storefront struct {
	handler  *server.Handler
	sessions session.Repository
}

func initStorefront(ctx context.Context, cfg *config.Config) (_ *storefront, closeFn func(), _ error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	valkeyClient, err := openValKey(cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	csrfKey, err := commoncfg.LoadValueFromSourceRef(cfg.Storefront.CSRFSecret)
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, nil, fmt.Errorf("loading csrf secret: %w", err)
	}

	paymentClient, err := checkout.NewPaymentClient(cfg.Storefront.Payment)
	if err != nil {
		db.Close()
		valkeyClient.Close()

		return nil, nil, fmt.Errorf("creating payment client: %w", err)
	}

	sessionRepo := sessionvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix)
	cartRepo := cartvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix, cfg.Storefront.CartRetention)

	userService := user.NewService(usersql.NewRepository(db))
	catalogService := catalog.NewService(catalogsql.NewRepository(db))
	orderService := order.NewService(ordersql.NewRepository(db))
	checkoutService := checkout.NewService(orderService, paymentClient)

	handler := server.NewHandler(cfg,
		sessionRepo,
		cartRepo,
		userService,
		catalogService,
		orderService,
		checkoutService,
		csrfKey,
	)

	closeFn = func() {
		valkeyClient.Close()
		db.Close()
	}

	return &storefront{handler: handler, sessions: sessionRepo}, closeFn, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing pgxpool config: %w", err)
	}

	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	return db, nil
}

func openValKey(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, fmt.Errorf("loading valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, fmt.Errorf("loading valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, fmt.Errorf("loading valkey password: %w", err)
	}

	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	})
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return valkeyClient, nil
}
