package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-manager/internal/cart"
	cartmock "github.com/shopfront/storefront-manager/internal/cart/mock"
	"github.com/shopfront/storefront-manager/internal/catalog"
	catalogmock "github.com/shopfront/storefront-manager/internal/catalog/mock"
	"github.com/shopfront/storefront-manager/internal/checkout"
	"github.com/shopfront/storefront-manager/internal/config"
	"github.com/shopfront/storefront-manager/internal/order"
	ordermock "github.com/shopfront/storefront-manager/internal/order/mock"
	sessionmock "github.com/shopfront/storefront-manager/internal/session/mock"
	"github.com/shopfront/storefront-manager/internal/user"
	usermock "github.com/shopfront/storefront-manager/internal/user/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseConfig: commoncfg.BaseConfig{
			Application: commoncfg.Application{
				Name: "test-app",
			},
		},
		HTTP: config.HTTPServer{
			Address:         "localhost:0",
			ShutdownTimeout: time.Second,
		},
		Storefront: config.Storefront{
			SessionDuration:   24 * time.Hour,
			SessionSkew:       5 * time.Second,
			SessionCookieName: "storefront_client",
		},
	}
}

type fixture struct {
	server *httptest.Server
	client *http.Client
}

func newFixture(t *testing.T, opts ...func(*fixtureConfig)) *fixture {
	t.Helper()

	fc := &fixtureConfig{}
	for _, opt := range opts {
		opt(fc)
	}

	cfg := testConfig()

	sessions := sessionmock.NewInMemRepository()
	carts := cartmock.NewInMemRepository()
	users := user.NewService(usermock.NewInMemRepository(fc.accounts...))
	products := catalog.NewService(catalogmock.NewInMemRepository(fc.products...))
	orderService := order.NewService(ordermock.NewInMemRepository(fc.orders...))
	checkoutService := checkout.NewService(orderService, nil)

	h := NewHandler(cfg, sessions, carts, users, products, orderService, checkoutService, []byte("test-csrf-key"))

	server := httptest.NewServer(createHTTPServer(t.Context(), cfg, h).Handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		server: server,
		client: &http.Client{Jar: jar},
	}
}

type fixtureConfig struct {
	accounts []usermock.RepositoryOption
	products []catalogmock.RepositoryOption
	orders   []ordermock.RepositoryOption
}

func withAccount(a user.Account) func(*fixtureConfig) {
	return func(fc *fixtureConfig) { fc.accounts = append(fc.accounts, usermock.WithAccount(a)) }
}

func withProduct(p catalog.Product) func(*fixtureConfig) {
	return func(fc *fixtureConfig) { fc.products = append(fc.products, catalogmock.WithProduct(p)) }
}

func withOrder(o order.Order) func(*fixtureConfig) {
	return func(fc *fixtureConfig) { fc.orders = append(fc.orders, ordermock.WithOrder(o)) }
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	return f.doWithHeaders(t, method, path, body, out, nil)
}

func (f *fixture) doWithHeaders(t *testing.T, method, path string, body any, out any, headers map[string]string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp
}

func hashed(t *testing.T, password string) string {
	t.Helper()

	hash, err := user.HashPassword(password)
	require.NoError(t, err)

	return hash
}

func (f *fixture) login(t *testing.T, username, password string) {
	t.Helper()

	resp := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (f *fixture) csrfToken(t *testing.T) string {
	t.Helper()

	var body struct {
		Token string `json:"token"`
	}
	resp := f.do(t, http.MethodGet, "/api/security/token", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body.Token)

	return body.Token
}

func TestPing(t *testing.T) {
	f := newFixture(t)

	var body struct {
		Result string `json:"result"`
	}
	resp := f.do(t, http.MethodGet, "/ping", nil, &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ping", body.Result)
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	t.Run("register", func(t *testing.T) {
		var body map[string]any
		resp := f.do(t, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "correct horse",
		}, &body)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, user.RoleUser, body["role"])
	})

	t.Run("anonymous whoami", func(t *testing.T) {
		var body map[string]any
		resp := f.do(t, http.MethodGet, "/api/auth/me", nil, &body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("login and whoami", func(t *testing.T) {
		var login map[string]any
		resp := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "correct horse",
		}, &login)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", login["username"])
		assert.NotZero(t, login["expiresAt"])

		var me map[string]any
		resp = f.do(t, http.MethodGet, "/api/auth/me", nil, &me)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, me["authenticated"])
		assert.Equal(t, "alice", me["username"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "wrong",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logout", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		var me map[string]any
		resp = f.do(t, http.MethodGet, "/api/auth/me", nil, &me)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, me["authenticated"])
	})
}

func TestCatalogEndpoints(t *testing.T) {
	f := newFixture(t,
		withProduct(catalog.Product{ID: 1, Name: "Shirt", Price: 100, Stock: 5}),
		withProduct(catalog.Product{ID: 2, Name: "Mug", Price: 15, Stock: 50}),
		withAccount(user.Account{ID: 1, Username: "root", PasswordHash: hashed(t, "admin-pass"), Role: user.RoleAdmin}),
		withAccount(user.Account{ID: 2, Username: "alice", PasswordHash: hashed(t, "user-pass1"), Role: user.RoleUser}),
	)

	t.Run("list is public", func(t *testing.T) {
		var page catalog.Page
		resp := f.do(t, http.MethodGet, "/api/products?page=0&size=10", nil, &page)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Len(t, page.Content, 2)
	})

	t.Run("get one", func(t *testing.T) {
		var product catalog.Product
		resp := f.do(t, http.MethodGet, "/api/products/1", nil, &product)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Shirt", product.Name)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/products/99", nil, nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("create needs a login", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/products", catalog.Product{Name: "Hat"}, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create needs the admin role", func(t *testing.T) {
		f.login(t, "alice", "user-pass1")

		resp := f.do(t, http.MethodPost, "/api/products", catalog.Product{Name: "Hat"}, nil)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("create needs a csrf token", func(t *testing.T) {
		f.login(t, "root", "admin-pass")

		resp := f.do(t, http.MethodPost, "/api/products", catalog.Product{Name: "Hat"}, nil)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin creates with a token", func(t *testing.T) {
		f.login(t, "root", "admin-pass")
		token := f.csrfToken(t)

		var created catalog.Product
		resp := f.doWithHeaders(t, http.MethodPost, "/api/products", catalog.Product{Name: "Hat", Price: 25, Stock: 10}, &created, map[string]string{
			csrfHeader: token,
		})

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Hat", created.Name)
	})
}

func TestCartEndpoints(t *testing.T) {
	f := newFixture(t,
		withProduct(catalog.Product{ID: 1, Name: "Shirt", Price: 100, Stock: 5}),
		withProduct(catalog.Product{ID: 2, Name: "Mug", Price: 15, Stock: 50}),
	)

	type cartBody struct {
		Items      []cart.LineItem `json:"items"`
		TotalPrice float64         `json:"totalPrice"`
	}

	t.Run("empty cart", func(t *testing.T) {
		var body cartBody
		resp := f.do(t, http.MethodGet, "/api/cart", nil, &body)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body.Items)
		assert.Zero(t, body.TotalPrice)
	})

	t.Run("adding accumulates", func(t *testing.T) {
		var body cartBody
		resp := f.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1, "quantity": 2}, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.InDelta(t, 200.0, body.TotalPrice, 0.0001)

		resp = f.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1, "quantity": 3}, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body.Items, 1)
		assert.Equal(t, int32(5), body.Items[0].Quantity)
		assert.InDelta(t, 500.0, body.TotalPrice, 0.0001)
	})

	t.Run("adding an unknown product is 404", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 99, "quantity": 1}, nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("a body that is not an object is 400", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/cart/items", "not-an-object", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update to zero removes the line", func(t *testing.T) {
		var body cartBody
		resp := f.do(t, http.MethodPut, "/api/cart/items/1", map[string]any{"quantity": 0}, &body)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body.Items)
		assert.Zero(t, body.TotalPrice)
	})

	t.Run("clear drops the stored record", func(t *testing.T) {
		var body cartBody
		resp := f.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": 1}, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodDelete, "/api/cart", nil, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body.Items)
	})
}

func TestOrderEndpoints(t *testing.T) {
	f := newFixture(t,
		withProduct(catalog.Product{ID: 1, Name: "Shirt", Price: 100, Stock: 5}),
		withAccount(user.Account{ID: 1, Username: "alice", PasswordHash: hashed(t, "user-pass1"), Role: user.RoleUser}),
	)

	t.Run("checkout needs a login", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/orders", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	f.login(t, "alice", "user-pass1")

	t.Run("checkout of an empty cart is rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/orders", nil, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	var placed order.Order

	t.Run("checkout places the order and empties the cart", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1, "quantity": 2}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodPost, "/api/orders", nil, &placed)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, order.StatusPending, placed.Status)
		assert.InDelta(t, 200.0, placed.TotalAmount, 0.0001)

		var body struct {
			Items []cart.LineItem `json:"items"`
		}
		resp = f.do(t, http.MethodGet, "/api/cart", nil, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body.Items)
	})

	t.Run("my orders", func(t *testing.T) {
		var page order.Page
		resp := f.do(t, http.MethodGet, "/api/orders/my-orders", nil, &page)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, page.Content, 1)
		assert.Equal(t, placed.ID, page.Content[0].ID)
	})

	t.Run("update quantities", func(t *testing.T) {
		var updated order.Order
		resp := f.do(t, http.MethodPut, fmt.Sprintf("/api/orders/%d", placed.ID), map[string]any{
			"items": []map[string]any{{"productId": 1, "quantity": 3}},
		}, &updated)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.InDelta(t, 300.0, updated.TotalAmount, 0.0001)
	})

	t.Run("delete", func(t *testing.T) {
		resp := f.do(t, http.MethodDelete, fmt.Sprintf("/api/orders/%d", placed.ID), nil, nil)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
