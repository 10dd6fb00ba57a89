package domain

// OrderItem представляет одну позицию заказа.
// Позиция никогда не сохраняется отдельно от своего заказа.
type OrderItem struct {
	id        string
	name      string
	price     float64
	productID string
	quantity  int
}

// NewOrderItem создаёт позицию заказа. Количество должно быть строго больше нуля;
// остальные поля на этом уровне не проверяются — они приходят из доверенных модулей.
func NewOrderItem(id, name string, price float64, productID string, quantity int) (OrderItem, error) {
	item := OrderItem{
		id:        id,
		name:      name,
		price:     price,
		productID: productID,
		quantity:  quantity,
	}
	if quantity <= 0 {
		return OrderItem{}, ErrItemQuantityInvalid
	}
	return item, nil
}

// ID возвращает идентификатор позиции.
func (i OrderItem) ID() string {
	return i.id
}

// Name возвращает название позиции.
func (i OrderItem) Name() string {
	return i.name
}

// Price возвращает цену за единицу.
func (i OrderItem) Price() float64 {
	return i.price
}

// ProductID возвращает внешний идентификатор товара.
func (i OrderItem) ProductID() string {
	return i.productID
}

// Quantity возвращает текущее количество.
func (i OrderItem) Quantity() int {
	return i.quantity
}

// Subtotal считает стоимость позиции: цена за единицу умноженная на количество.
func (i OrderItem) Subtotal() float64 {
	return i.price * float64(i.quantity)
}

// IncreaseQuantity увеличивает количество на amount.
// Валидация после мутации — ответственность владеющего заказа.
func (i *OrderItem) IncreaseQuantity(amount int) {
	i.quantity += amount
}

// DecreaseQuantity уменьшает количество на amount.
// Уход ниже нуля здесь намеренно не проверяется (см. Order.Validate).
func (i *OrderItem) DecreaseQuantity(amount int) {
	i.quantity -= amount
}
