package checkout

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/cart"
	"github.com/shopfront/storefront-manager/internal/order"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

// OrderPlacer is the slice of the order service that checkout needs.
type OrderPlacer interface {
	Create(ctx context.Context, userID int64, items []order.Item) (order.Order, error)
}

// Service turns a cart into an order and hands the total to the payment
// provider.
type Service struct {
	orders  OrderPlacer
	payment *PaymentClient
}

func NewService(orders OrderPlacer, payment *PaymentClient) *Service {
	return &Service{
		orders:  orders,
		payment: payment,
	}
}

// Submit places an order from the cart's current lines and empties the cart.
// The cart survives untouched when order creation fails, so the user can
// retry.
func (s *Service) Submit(ctx context.Context, userID int64, basket *cart.Store) (order.Order, error) {
	snapshot := basket.Snapshot()
	if len(snapshot.Items) == 0 {
		return order.Order{}, serviceerr.ErrEmptyCart
	}

	items := make([]order.Item, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, order.Item{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			Quantity:     line.Quantity,
			PricePerUnit: line.Price,
		})
	}

	placed, err := s.orders.Create(ctx, userID, items)
	if err != nil {
		return order.Order{}, fmt.Errorf("placing order: %w", err)
	}

	basket.Clear(ctx)

	slogctx.Info(ctx, "Checked out cart", "order_id", placed.ID, "user_id", userID, "total", placed.TotalAmount)

	return placed, nil
}

// PayOrder opens a payment intent for an already placed order.
func (s *Service) PayOrder(ctx context.Context, o order.Order) (Intent, error) {
	intent, err := s.payment.CreateIntent(ctx, o.ID, o.TotalAmount)
	if err != nil {
		return Intent{}, fmt.Errorf("creating payment intent: %w", err)
	}

	return intent, nil
}
