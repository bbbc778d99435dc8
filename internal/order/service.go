package order

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type Service struct {
	repository Repository
	now        func() time.Time
}

type ServiceOption func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repository: repo,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create opens a PENDING order for the user from the given lines. The total
// is derived from the lines, never accepted from the caller.
func (s *Service) Create(ctx context.Context, userID int64, items []Item) (Order, error) {
	if len(items) == 0 {
		return Order{}, serviceerr.ErrEmptyCart
	}

	created, err := s.repository.Create(ctx, Order{
		UserID:      userID,
		OrderDate:   s.now(),
		Status:      StatusPending,
		TotalAmount: totalAmount(items),
		Items:       items,
	})
	if err != nil {
		return Order{}, fmt.Errorf("creating order: %w", err)
	}

	slogctx.Info(ctx, "Created order", "order_id", created.ID, "user_id", userID, "total", created.TotalAmount)

	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	o, err := s.repository.Get(ctx, id)
	if err != nil {
		return Order{}, fmt.Errorf("getting order: %w", err)
	}

	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64, page, size int) (Page, error) {
	listing, err := s.repository.ListByUser(ctx, userID, page, size)
	if err != nil {
		return Page{}, fmt.Errorf("listing orders: %w", err)
	}

	return listing, nil
}

// UpdateItems sets new quantities on an existing order's lines. Only the
// owning user may modify it, and only while it is still PENDING. A quantity
// of zero drops the line; dropping every line is rejected (delete the order
// instead). Unknown product ids are ignored.
func (s *Service) UpdateItems(ctx context.Context, orderID, userID int64, quantities map[int64]int32) (Order, error) {
	o, err := s.repository.Get(ctx, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("getting order: %w", err)
	}

	if o.UserID != userID {
		return Order{}, serviceerr.ErrForbidden
	}
	if o.Status != StatusPending {
		return Order{}, serviceerr.ErrForbidden
	}

	items := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		if quantity, ok := quantities[item.ProductID]; ok {
			if quantity < 1 {
				continue
			}

			item.Quantity = quantity
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return Order{}, serviceerr.ErrEmptyCart
	}

	o.Items = items
	o.TotalAmount = totalAmount(items)

	if err := s.repository.Update(ctx, o); err != nil {
		return Order{}, fmt.Errorf("updating order: %w", err)
	}

	return o, nil
}

// SetStatus moves the order through its lifecycle. Admin only; the handler
// enforces the role.
func (s *Service) SetStatus(ctx context.Context, orderID int64, status Status) (Order, error) {
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
	default:
		return Order{}, fmt.Errorf("%w: unknown order status %q", serviceerr.ErrBadRequest, status)
	}

	o, err := s.repository.Get(ctx, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("getting order: %w", err)
	}

	o.Status = status

	if err := s.repository.Update(ctx, o); err != nil {
		return Order{}, fmt.Errorf("updating order: %w", err)
	}

	return o, nil
}

// Delete removes the order. Only the owning user may delete it.
func (s *Service) Delete(ctx context.Context, orderID, userID int64) error {
	o, err := s.repository.Get(ctx, orderID)
	if err != nil {
		return fmt.Errorf("getting order: %w", err)
	}

	if o.UserID != userID {
		return serviceerr.ErrForbidden
	}

	if err := s.repository.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	slogctx.Info(ctx, "Deleted order", "order_id", orderID, "user_id", userID)

	return nil
}
