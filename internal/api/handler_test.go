package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goshop/cart-checkout/internal/cache"
	"github.com/goshop/cart-checkout/internal/catalog"
	"github.com/goshop/cart-checkout/internal/domain"
	"github.com/goshop/cart-checkout/internal/publisher"
	"github.com/goshop/cart-checkout/internal/repository"
	"github.com/goshop/cart-checkout/internal/service"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	products := catalog.NewMemoryCatalog()
	products.Put(domain.Product{ID: "p1", Name: "Widget", Price: 10, IsActive: true})
	products.Put(domain.Product{ID: "p2", Name: "Gadget", Price: 5, IsActive: true})

	engine := service.NewCartEngine(repository.NewMemoryCartStore(), products, cache.Nop{})
	coordinator := service.NewCheckoutCoordinator(engine, repository.NewMemoryOrderStore(), publisher.NopPublisher{})

	srv := httptest.NewServer(NewRouter(engine, coordinator, 30*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func shopperHeaders(ownerID string) map[string]string {
	return map[string]string{
		"X-User-ID":   ownerID,
		"X-User-Role": "shopper",
	}
}

func decodeCart(t *testing.T, resp *http.Response) domain.Cart {
	t.Helper()
	defer resp.Body.Close()

	var cart domain.Cart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	return cart
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartRoutes_RequireIdentity(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/cart", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCartRoutes_RejectAdmins(t *testing.T) {
	srv := setupTestServer(t)

	headers := map[string]string{
		"X-User-ID":   "admin-1",
		"X-User-Role": "admin",
	}
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/cart", nil, headers)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAddItem_CreatesCart(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "p1", Quantity: 2}, shopperHeaders("owner-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cart := decodeCart(t, resp)
	assert.Equal(t, "owner-1", cart.OwnerID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 20.0, cart.TotalPrice, 1e-9)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/cart/items", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	for k, v := range shopperHeaders("owner-1") {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "missing", Quantity: 1}, shopperHeaders("owner-1"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "not_found", errResp.Code)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "p1", Quantity: 0}, shopperHeaders("owner-1"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCart_NotFound(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/cart", nil, shopperHeaders("owner-1"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	srv := setupTestServer(t)
	headers := shopperHeaders("owner-1")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "p1", Quantity: 2}, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPut, srv.URL+"/api/v1/cart/items/p1",
		SetQuantityRequestDTO{Quantity: 0}, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cart := decodeCart(t, resp)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestRemoveItem_MissingLine(t *testing.T) {
	srv := setupTestServer(t)
	headers := shopperHeaders("owner-1")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "p1", Quantity: 1}, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/v1/cart/items/p2", nil, headers)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckout_Flow(t *testing.T) {
	srv := setupTestServer(t)
	headers := shopperHeaders("owner-1")

	for productID, qty := range map[string]int{"p1": 2, "p2": 1} {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
			AddItemRequestDTO{ProductID: productID, Quantity: qty}, headers)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/orders/checkout", nil, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()
	assert.Equal(t, "owner-1", order.OwnerID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.InDelta(t, 25.0, order.TotalAmount, 1e-9)

	// Cart is gone after checkout.
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cart", nil, headers)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/orders/my-orders", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var orders []domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/orders/checkout", nil, shopperHeaders("owner-1"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "empty_cart", errResp.Code)
}

func TestMyOrders_EmptyList(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/orders/my-orders", nil, shopperHeaders("owner-1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var orders []domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	assert.Empty(t, orders)
}

func TestOwnersAreIsolated(t *testing.T) {
	srv := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cart/items",
		AddItemRequestDTO{ProductID: "p1", Quantity: 1}, shopperHeaders("owner-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cart", nil, shopperHeaders("owner-2"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
