package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	// EventTypeOrderCreated — заказ со всеми позициями сохранён впервые.
	EventTypeOrderCreated EventType = "order.created"
	// EventTypeOrderUpdated — транзакционная сверка позиций успешно закоммичена.
	EventTypeOrderUpdated EventType = "order.updated"
)

// TopicOrderEvents — топик Kafka для событий заказов.
const TopicOrderEvents = "checkout.order.events"

// OrderEventItem — позиция заказа в составе события.
type OrderEventItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
}

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventType  EventType        `json:"event_type"`
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	Total      float64          `json:"total"`
	Items      []OrderEventItem `json:"items"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewOrderEvent создаёт событие заказа с текущим временем.
func NewOrderEvent(eventType EventType, orderID, customerID string, total float64, items []OrderEventItem) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Total:      total,
		Items:      items,
		Timestamp:  time.Now(),
	}
}
