package cart

// LineItem is one product-quantity pairing in the cart. The display fields
// are cached copies of catalog data from the moment the item was added; they
// are not refreshed afterwards. Stock is the last-known availability, used
// by callers as an increment guard only, never enforced here.
type LineItem struct {
	ProductID   int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int32   `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CategoryID  int64   `json:"categoryId,omitempty"`
	Quantity    int32   `json:"quantity"`
}

// Snapshot is a point-in-time copy of the cart for rendering or checkout.
// TotalPrice always equals the sum of Price*Quantity over Items.
type Snapshot struct {
	Items      []LineItem
	TotalPrice float64
}

func totalPrice(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	return total
}
