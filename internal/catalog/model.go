package catalog

// Product is one catalog entry. Stock is the quantity available for sale;
// the cart caches it at add-time as a client-side increment guard.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int32   `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  *int64  `json:"categoryId"`
}

// Page is one slice of the catalog listing, shaped like the paged responses
// the storefront renders.
type Page struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}
