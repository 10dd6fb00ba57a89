package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	service := checkout.NewService(memory.NewOrderRepository(), nil, nil, nil)
	e := echo.New()
	NewOrderHandlers(service, nil).Register(e)
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) orderResponse {
	t.Helper()

	var response orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func createTestOrder(t *testing.T, e *echo.Echo) orderResponse {
	t.Helper()

	body := `{
		"customer_id": "customer-1",
		"items": [
			{"id": "item-1", "name": "Keyboard", "price": 100, "product_id": "product-1", "quantity": 2},
			{"id": "item-2", "name": "Mouse", "price": 50, "product_id": "product-2", "quantity": 1}
		]
	}`
	rec := doRequest(e, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeOrder(t, rec)
}

func TestCreateOrder(t *testing.T) {
	e := newTestServer(t)

	order := createTestOrder(t, e)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "customer-1", order.CustomerID)
	assert.Equal(t, 250.0, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 200.0, order.Items[0].Subtotal)
}

func TestCreateOrderValidation(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing customer",
			body:    `{"customer_id": "", "items": [{"id": "i", "name": "n", "price": 1, "product_id": "p", "quantity": 1}]}`,
			wantErr: "CustomerId is required",
		},
		{
			name:    "no items",
			body:    `{"customer_id": "customer-1", "items": []}`,
			wantErr: "Items are required",
		},
		{
			name:    "invalid quantity",
			body:    `{"customer_id": "customer-1", "items": [{"id": "i", "name": "n", "price": 1, "product_id": "p", "quantity": 0}]}`,
			wantErr: "Quantity must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/orders", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			var response errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.wantErr, response.Error)
		})
	}
}

func TestGetOrder(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	rec := doRequest(e, http.MethodGet, "/orders/"+created.ID, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeOrder(t, rec)
	assert.Equal(t, created, got)
}

func TestGetOrderNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/orders/missing", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Order not found", response.Error)
}

func TestListOrders(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	first := createTestOrder(t, e)
	second := createTestOrder(t, e)

	rec = doRequest(e, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var response []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, first.ID, response[0].ID)
	assert.Equal(t, second.ID, response[1].ID)
}

func TestAddItem(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	body := `{"id": "item-3", "name": "Monitor", "price": 300, "product_id": "product-3", "quantity": 1}`
	rec := doRequest(e, http.MethodPost, "/orders/"+created.ID+"/items", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeOrder(t, rec)
	assert.Equal(t, 550.0, got.Total)
	require.Len(t, got.Items, 3)
}

func TestAddItemDuplicate(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	body := `{"id": "item-1", "name": "Keyboard", "price": 100, "product_id": "product-1", "quantity": 2}`
	rec := doRequest(e, http.MethodPost, "/orders/"+created.ID+"/items", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Item is already in the order", response.Error)
}

func TestRemoveItem(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	rec := doRequest(e, http.MethodDelete, "/orders/"+created.ID+"/items/item-2", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeOrder(t, rec)
	assert.Equal(t, 200.0, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "item-1", got.Items[0].ID)
}

func TestRemoveItemNotFound(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	rec := doRequest(e, http.MethodDelete, "/orders/"+created.ID+"/items/missing", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Item not found", response.Error)
}

func TestChangeItemQuantity(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	rec := doRequest(e, http.MethodPatch, "/orders/"+created.ID+"/items/item-1/quantity", `{"amount": 3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeOrder(t, rec)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, 550.0, got.Total)

	rec = doRequest(e, http.MethodPatch, "/orders/"+created.ID+"/items/item-1/quantity", `{"amount": -4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeOrder(t, rec)
	assert.Equal(t, 1, got.Items[0].Quantity)
	assert.Equal(t, 150.0, got.Total)
}

func TestChangeItemQuantityZeroAmount(t *testing.T) {
	e := newTestServer(t)
	created := createTestOrder(t, e)

	rec := doRequest(e, http.MethodPatch, "/orders/"+created.ID+"/items/item-1/quantity", `{"amount": 0}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidRequestBody(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/orders", "{not json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
