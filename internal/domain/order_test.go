package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// helper для создания позиции без шума проверки ошибок в сценариях.
func mustItem(t *testing.T, id, name string, price float64, productID string, quantity int) domain.OrderItem {
	t.Helper()
	item, err := domain.NewOrderItem(id, name, price, productID, quantity)
	if err != nil {
		t.Fatalf("create item %s: %v", id, err)
	}
	return item
}

func makeOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("order-1", "customer-1", []domain.OrderItem{
		mustItem(t, "item-1", "Keyboard", 100, "product-1", 2),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestNewOrder_ValidationOrder(t *testing.T) {
	item := mustItem(t, "item-1", "Keyboard", 100, "product-1", 1)

	cases := []struct {
		name       string
		id         string
		customerID string
		items      []domain.OrderItem
		want       error
	}{
		{name: "empty id", id: "", customerID: "customer-1", items: []domain.OrderItem{item}, want: domain.ErrOrderIDRequired},
		{name: "empty customer", id: "order-1", customerID: "", items: []domain.OrderItem{item}, want: domain.ErrCustomerRequired},
		{name: "no items", id: "order-1", customerID: "customer-1", items: nil, want: domain.ErrItemsRequired},
		// Перекрывающиеся нарушения: побеждает первое по фиксированному порядку.
		{name: "empty id wins over empty customer", id: "", customerID: "", items: nil, want: domain.ErrOrderIDRequired},
		{name: "empty customer wins over empty items", id: "order-1", customerID: "", items: nil, want: domain.ErrCustomerRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := domain.NewOrder(tc.id, tc.customerID, tc.items); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewOrder_InvalidQuantityInItems(t *testing.T) {
	// Позицию с нулевым количеством нельзя получить через конструктор,
	// но заказ обязан перехватывать такое состояние после мутаций.
	item := mustItem(t, "item-1", "Keyboard", 100, "product-1", 1)
	order, err := domain.NewOrder("order-1", "customer-1", []domain.OrderItem{item})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := order.DecreaseItemQuantity("item-1", 1); err != nil {
		t.Fatalf("decrease quantity: %v", err)
	}
	if err := order.Validate(); !errors.Is(err, domain.ErrItemQuantityInvalid) {
		t.Fatalf("expected ErrItemQuantityInvalid after decrease to zero, got %v", err)
	}
}

func TestNewOrder_AllowsDuplicateItemIDs(t *testing.T) {
	// Уникальность ID позиций контролирует только AddItem; прямое
	// конструирование с дубликатами проходит валидацию.
	items := []domain.OrderItem{
		mustItem(t, "item-1", "Keyboard", 100, "product-1", 1),
		mustItem(t, "item-1", "Keyboard", 100, "product-1", 1),
	}
	order, err := domain.NewOrder("order-1", "customer-1", items)
	if err != nil {
		t.Fatalf("expected duplicate ids to pass construction, got %v", err)
	}
	if len(order.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items()))
	}
}

func TestOrderTotal(t *testing.T) {
	order, err := domain.NewOrder("order-1", "customer-1", []domain.OrderItem{
		mustItem(t, "item-1", "Keyboard", 100, "product-1", 2),
		mustItem(t, "item-2", "Mouse", 200, "product-2", 2),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if got := order.Total(); got != 600 {
		t.Fatalf("expected total 600, got %v", got)
	}
}

func TestOrderAddRemoveRoundTrip(t *testing.T) {
	order := makeOrder(t)
	wantTotal := order.Total()
	extra := mustItem(t, "item-2", "Mouse", 200, "product-2", 2)

	if err := order.AddItem(extra); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(order.Items()) != 2 {
		t.Fatalf("expected 2 items after add, got %d", len(order.Items()))
	}
	if got := order.Total(); got != wantTotal+400 {
		t.Fatalf("expected total %v after add, got %v", wantTotal+400, got)
	}

	if err := order.RemoveItem(extra); err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(order.Items()) != 1 {
		t.Fatalf("expected 1 item after remove, got %d", len(order.Items()))
	}
	if got := order.Total(); got != wantTotal {
		t.Fatalf("expected total back to %v, got %v", wantTotal, got)
	}
}

func TestOrderAddItem_Duplicate(t *testing.T) {
	order := makeOrder(t)
	duplicate := mustItem(t, "item-1", "Another name", 5, "product-9", 1)

	if err := order.AddItem(duplicate); !errors.Is(err, domain.ErrItemAlreadyAdded) {
		t.Fatalf("expected ErrItemAlreadyAdded, got %v", err)
	}
	if len(order.Items()) != 1 {
		t.Fatalf("item count changed after failed add: %d", len(order.Items()))
	}
}

func TestOrderRemoveItem_NotFound(t *testing.T) {
	order := makeOrder(t)
	missing := mustItem(t, "item-404", "Ghost", 1, "product-1", 1)

	if err := order.RemoveItem(missing); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if len(order.Items()) != 1 || order.Total() != 200 {
		t.Fatalf("aggregate changed after failed remove: items=%d total=%v", len(order.Items()), order.Total())
	}
}

func TestOrderItemQuantityMutators(t *testing.T) {
	order := makeOrder(t)

	if err := order.IncreaseItemQuantity("item-1", 1); err != nil {
		t.Fatalf("increase quantity: %v", err)
	}
	if got := order.Total(); got != 300 {
		t.Fatalf("expected total 300 after increase, got %v", got)
	}

	if err := order.DecreaseItemQuantity("item-1", 2); err != nil {
		t.Fatalf("decrease quantity: %v", err)
	}
	if got := order.Total(); got != 100 {
		t.Fatalf("expected total 100 after decrease, got %v", got)
	}
}

func TestOrderQuantityMutators_NotFound(t *testing.T) {
	order := makeOrder(t)

	if err := order.IncreaseItemQuantity("item-404", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on increase, got %v", err)
	}
	if err := order.DecreaseItemQuantity("item-404", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on decrease, got %v", err)
	}
	if order.Total() != 200 {
		t.Fatalf("aggregate changed after failed mutations: total=%v", order.Total())
	}
}

func TestOrderItems_DefensiveCopy(t *testing.T) {
	order := makeOrder(t)

	view := order.Items()
	view[0].IncreaseQuantity(100)

	if got := order.Total(); got != 200 {
		t.Fatalf("mutation through Items() leaked into aggregate: total=%v", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !domain.IsValidation(domain.ErrItemNotFound) {
		t.Fatal("ErrItemNotFound must be a validation error")
	}
	if !domain.IsNotFound(domain.ErrOrderNotFound) {
		t.Fatal("ErrOrderNotFound must be a not-found error")
	}

	wrapped := domain.NewOrderUpdateError(errors.New("connection reset"))
	if !domain.IsPersistence(wrapped) {
		t.Fatal("update error must be a persistence error")
	}
	if !errors.Is(wrapped, domain.ErrOrderUpdateFailed) {
		t.Fatal("wrapped update error must match the fixed-message sentinel")
	}
	if wrapped.Error() != "Error while trying to update order" {
		t.Fatalf("unexpected external message: %q", wrapped.Error())
	}
	if errors.Unwrap(wrapped) == nil {
		t.Fatal("underlying cause must be retained for diagnostics")
	}
}
