package ordersql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/storefront-manager/internal/order"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

var _ = order.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, o order.Order) (order.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, order_date, status, total_amount)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`,
		o.UserID, o.OrderDate, o.Status, o.TotalAmount,
	).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("inserting into orders: %w", err)
	}

	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return order.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("committing tx: %w", err)
	}

	return o, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var o order.Order
	if err := tx.QueryRow(ctx, `SELECT id, user_id, order_date, status, total_amount
FROM orders
WHERE id = $1;`,
		id,
	).
		Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Status, &o.TotalAmount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, serviceerr.ErrNotFound
		}

		return order.Order{}, fmt.Errorf("selecting from orders: %w", err)
	}

	o.Items, err = selectItems(ctx, tx, o.ID)
	if err != nil {
		return order.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("committing tx: %w", err)
	}

	return o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64, page, size int) (order.Page, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Page{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id = $1;`, userID).Scan(&total); err != nil {
		return order.Page{}, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT id, user_id, order_date, status, total_amount
FROM orders
WHERE user_id = $1
ORDER BY order_date DESC, id DESC
LIMIT $2 OFFSET $3;`,
		userID, size, page*size,
	)
	if err != nil {
		return order.Page{}, fmt.Errorf("selecting from orders: %w", err)
	}

	content := make([]order.Order, 0, size)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Status, &o.TotalAmount); err != nil {
			return order.Page{}, fmt.Errorf("scanning rows: %w", err)
		}

		content = append(content, o)
	}
	if err := rows.Err(); err != nil {
		return order.Page{}, fmt.Errorf("iterating rows: %w", err)
	}

	for i := range content {
		content[i].Items, err = selectItems(ctx, tx, content[i].ID)
		if err != nil {
			return order.Page{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Page{}, fmt.Errorf("committing tx: %w", err)
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return order.Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          totalPages == 0 || page >= totalPages-1,
	}, nil
}

func (r *Repository) Update(ctx context.Context, o order.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE orders
	SET (status, total_amount) = ($2, $3)
	WHERE id = $1;`,
		o.ID, o.Status, o.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("updating orders: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1;`, o.ID); err != nil {
		return fmt.Errorf("deleting from order_items: %w", err)
	}

	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	// order_items rows go with the order via ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("deleting from orders: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []order.Item) error {
	for _, item := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price_per_unit)
	VALUES ($1, $2, $3, $4, $5);`,
			orderID, item.ProductID, item.ProductName, item.Quantity, item.PricePerUnit,
		); err != nil {
			return fmt.Errorf("inserting into order_items: %w", err)
		}
	}

	return nil
}

func selectItems(ctx context.Context, tx pgx.Tx, orderID int64) ([]order.Item, error) {
	rows, err := tx.Query(ctx, `SELECT product_id, product_name, quantity, price_per_unit
FROM order_items
WHERE order_id = $1
ORDER BY id;`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting from order_items: %w", err)
	}

	items := make([]order.Item, 0, 4)
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.PricePerUnit); err != nil {
			return nil, fmt.Errorf("scanning rows: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return items, nil
}
