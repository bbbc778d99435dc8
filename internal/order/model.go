package order

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
)

// Item is one order line. PricePerUnit is fixed at order creation from the
// cart's cached price and never re-read from the catalog.
type Item struct {
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     int32   `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

type Order struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	OrderDate   time.Time `json:"orderDate"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	Items       []Item    `json:"items"`
}

// Page is one slice of a user's order history.
type Page struct {
	Content       []Order `json:"content"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
	First         bool    `json:"first"`
	Last          bool    `json:"last"`
}

func totalAmount(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.PricePerUnit * float64(item.Quantity)
	}

	return total
}
