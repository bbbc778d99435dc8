package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	slogctx "github.com/veqryn/slog-context"

	"github.com/shopfront/storefront-manager/internal/cart"
	"github.com/shopfront/storefront-manager/internal/catalog"
	"github.com/shopfront/storefront-manager/internal/checkout"
	"github.com/shopfront/storefront-manager/internal/config"
	"github.com/shopfront/storefront-manager/internal/middleware/clientctx"
	"github.com/shopfront/storefront-manager/internal/order"
	"github.com/shopfront/storefront-manager/internal/serviceerr"
	"github.com/shopfront/storefront-manager/internal/session"
	"github.com/shopfront/storefront-manager/internal/user"
	"github.com/shopfront/storefront-manager/pkg/csrf"
)

const csrfHeader = "X-CSRF-Token"

// Handler carries the storefront's services behind the REST surface. Session
// and cart state is keyed by the client id cookie, so every request opens
// the calling browser's own store.
type Handler struct {
	cfg      *config.Config
	sessions session.Repository
	carts    cart.Repository
	users    *user.Service
	products *catalog.Service
	orders   *order.Service
	checkout *checkout.Service
	csrfKey  []byte
}

func NewHandler(
	cfg *config.Config,
	sessions session.Repository,
	carts cart.Repository,
	users *user.Service,
	products *catalog.Service,
	orders *order.Service,
	co *checkout.Service,
	csrfKey []byte,
) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		carts:    carts,
		users:    users,
		products: products,
		orders:   orders,
		checkout: co,
		csrfKey:  csrfKey,
	}
}

func (h *Handler) routes(mux *http.ServeMux) {
	op := func(id string, fn http.HandlerFunc) http.HandlerFunc {
		return operation(h.cfg, id, fn)
	}

	mux.HandleFunc("POST /api/auth/register", op("register", h.register))
	mux.HandleFunc("POST /api/auth/login", op("login", h.login))
	mux.HandleFunc("POST /api/auth/logout", op("logout", h.logout))
	mux.HandleFunc("GET /api/auth/me", op("whoami", h.whoami))
	mux.HandleFunc("GET /api/users/profile", op("getProfile", h.getProfile))
	mux.HandleFunc("PUT /api/users/profile", op("updateProfile", h.updateProfile))

	mux.HandleFunc("GET /api/security/token", op("csrfToken", h.csrfToken))

	mux.HandleFunc("GET /api/products", op("listProducts", h.listProducts))
	mux.HandleFunc("GET /api/products/{id}", op("getProduct", h.getProduct))
	mux.HandleFunc("POST /api/products", op("createProduct", h.createProduct))
	mux.HandleFunc("PUT /api/products/{id}", op("updateProduct", h.updateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", op("deleteProduct", h.deleteProduct))

	mux.HandleFunc("GET /api/cart", op("getCart", h.getCart))
	mux.HandleFunc("POST /api/cart/items", op("addCartItem", h.addCartItem))
	mux.HandleFunc("PUT /api/cart/items/{productID}", op("updateCartItem", h.updateCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{productID}", op("removeCartItem", h.removeCartItem))
	mux.HandleFunc("DELETE /api/cart", op("clearCart", h.clearCart))

	mux.HandleFunc("POST /api/orders", op("placeOrder", h.placeOrder))
	mux.HandleFunc("GET /api/orders/my-orders", op("myOrders", h.myOrders))
	mux.HandleFunc("PUT /api/orders/{id}", op("updateOrder", h.updateOrder))
	mux.HandleFunc("DELETE /api/orders/{id}", op("deleteOrder", h.deleteOrder))
	mux.HandleFunc("PUT /api/orders/{id}/status", op("setOrderStatus", h.setOrderStatus))

	mux.HandleFunc("POST /api/payments/create-intent", op("createPaymentIntent", h.createPaymentIntent))
}

// --- session plumbing ---

func (h *Handler) openSession(r *http.Request) (*session.Store, error) {
	clientID, err := clientctx.ClientIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}

	sf := h.cfg.Storefront

	return session.Open(r.Context(), h.sessions, clientID, sf.SessionDuration, sf.SessionSkew), nil
}

func (h *Handler) openCart(r *http.Request) (*cart.Store, error) {
	clientID, err := clientctx.ClientIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}

	return cart.Open(r.Context(), h.carts, clientID), nil
}

// currentUser resolves the logged-in account, if any.
func (h *Handler) currentUser(r *http.Request) (user.Account, error) {
	sess, err := h.openSession(r)
	if err != nil {
		return user.Account{}, err
	}

	username, ok := sess.Username(r.Context())
	if !ok {
		return user.Account{}, serviceerr.ErrInvalidCredentials
	}

	return h.users.GetByUsername(r.Context(), username)
}

func (h *Handler) requireAdmin(r *http.Request) (user.Account, error) {
	account, err := h.currentUser(r)
	if err != nil {
		return user.Account{}, err
	}

	if account.Role != user.RoleAdmin {
		return user.Account{}, serviceerr.ErrForbidden
	}

	return account, nil
}

// requireCSRF guards state-changing admin routes. The token must have been
// minted for this very client id.
func (h *Handler) requireCSRF(r *http.Request) error {
	clientID, err := clientctx.ClientIDFromContext(r.Context())
	if err != nil {
		return err
	}

	if !csrf.Verify(r.Header.Get(csrfHeader), clientID, h.csrfKey) {
		return serviceerr.ErrForbidden
	}

	return nil
}

// --- auth ---

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	account, err := h.users.Register(r.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       account.ID,
		"username": account.Username,
		"email":    account.Email,
		"role":     account.Role,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	account, err := h.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.openSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess.Login(r.Context(), account.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"username":  account.Username,
		"role":      account.Role,
		"expiresAt": sess.Expiry(r.Context()).UnixMilli(),
	})
}

// logout always succeeds. Whatever the backend's state, the client's local
// session is gone afterwards.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.openSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess.Logout(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	sess, err := h.openSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	username, ok := sess.Username(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      username,
		"expiresAt":     sess.Expiry(r.Context()).UnixMilli(),
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.users.GetProfile(r.Context(), account.ID)
	if err != nil && !errors.Is(err, serviceerr.ErrNotFound) {
		writeError(w, r, err)
		return
	}

	profile.UserID = account.ID
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var profile user.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	profile.UserID = account.ID
	if err := h.users.UpdateProfile(r.Context(), profile); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	clientID, err := clientctx.ClientIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": csrf.Mint(clientID, h.csrfKey),
	})
}

// --- catalog ---

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	listing, err := h.products.List(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requireCSRF(r); err != nil {
		writeError(w, r, err)
		return
	}

	var product catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	created, err := h.products.Create(r.Context(), product)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requireCSRF(r); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var product catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	product.ID = id
	if err := h.products.Update(r.Context(), product); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requireCSRF(r); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- cart ---

func cartResponse(snapshot cart.Snapshot) map[string]any {
	items := snapshot.Items
	if items == nil {
		items = []cart.LineItem{}
	}

	return map[string]any{
		"items":      items,
		"totalPrice": snapshot.TotalPrice,
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(basket.Snapshot()))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int64 `json:"productId"`
		Quantity  int32 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	product, err := h.products.Get(r.Context(), body.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var categoryID int64
	if product.CategoryID != nil {
		categoryID = *product.CategoryID
	}

	basket.AddItem(r.Context(), cart.LineItem{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CategoryID:  categoryID,
		Quantity:    body.Quantity,
	})

	writeJSON(w, http.StatusOK, cartResponse(basket.Snapshot()))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Quantity int32 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket.UpdateQuantity(r.Context(), productID, body.Quantity)

	writeJSON(w, http.StatusOK, cartResponse(basket.Snapshot()))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket.RemoveItem(r.Context(), productID)

	writeJSON(w, http.StatusOK, cartResponse(basket.Snapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket.Clear(r.Context())

	writeJSON(w, http.StatusOK, cartResponse(basket.Snapshot()))
}

// --- orders ---

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	basket, err := h.openCart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	placed, err := h.checkout.Submit(r.Context(), account.ID, basket)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, placed)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, size := pageParams(r)

	listing, err := h.orders.ListByUser(r.Context(), account.ID, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Items []struct {
			ProductID int64 `json:"productId"`
			Quantity  int32 `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	quantities := make(map[int64]int32, len(body.Items))
	for _, item := range body.Items {
		quantities[item.ProductID] = item.Quantity
	}

	updated, err := h.orders.UpdateItems(r.Context(), orderID, account.ID, quantities)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.orders.Delete(r.Context(), orderID, account.ID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.requireCSRF(r); err != nil {
		writeError(w, r, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	updated, err := h.orders.SetStatus(r.Context(), orderID, body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// --- payments ---

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	account, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body struct {
		OrderID int64 `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, serviceerr.ErrBadRequest)
		return
	}

	o, err := h.orders.Get(r.Context(), body.OrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if o.UserID != account.ID {
		writeError(w, r, serviceerr.ErrForbidden)
		return
	}

	intent, err := h.checkout.PayOrder(r.Context(), o)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, intent)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, serviceerr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, serviceerr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, serviceerr.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, serviceerr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, serviceerr.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, serviceerr.ErrBadRequest):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slogctx.Error(r.Context(), "Request failed", "error", err)
	} else {
		slogctx.Warn(r.Context(), "Request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, serviceerr.ErrNotFound
	}

	return id, nil
}

func pageParams(r *http.Request) (page, size int) {
	size = 20

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 && v <= 100 {
		size = v
	}

	return page, size
}
