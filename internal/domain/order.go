package domain

// Order — корень агрегата: владеет коллекцией позиций и отвечает за их инварианты.
// Поля скрыты, чтобы внешняя мутация не обходила проверки AddItem/RemoveItem.
type Order struct {
	id         string
	customerID string
	items      []OrderItem
	total      float64
}

// NewOrder создаёт заказ, снимает стартовый снапшот суммы и проверяет инварианты.
// Дубликаты ID позиций на этом этапе не отклоняются — уникальность
// контролирует только AddItem.
func NewOrder(id, customerID string, items []OrderItem) (*Order, error) {
	o := &Order{
		id:         id,
		customerID: customerID,
		items:      append([]OrderItem(nil), items...),
	}
	o.total = o.Total()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// ID возвращает идентификатор заказа.
func (o *Order) ID() string {
	return o.id
}

// CustomerID возвращает ссылку на клиента.
func (o *Order) CustomerID() string {
	return o.customerID
}

// Items возвращает копию коллекции позиций в порядке добавления.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// Validate перепроверяет структурные инварианты заказа.
// Порядок проверок фиксирован, возвращается первое нарушение.
func (o *Order) Validate() error {
	if o.id == "" {
		return ErrOrderIDRequired
	}
	if o.customerID == "" {
		return ErrCustomerRequired
	}
	if len(o.items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range o.items {
		if item.quantity <= 0 {
			return ErrItemQuantityInvalid
		}
	}
	return nil
}

// Total пересчитывает сумму заказа по текущим позициям.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

// AddItem добавляет позицию в конец коллекции.
// Единственное место, где запрещаются дубликаты ID позиций.
func (o *Order) AddItem(item OrderItem) error {
	if o.findItem(item.id) >= 0 {
		return ErrItemAlreadyAdded
	}
	o.items = append(o.items, item)
	return nil
}

// RemoveItem удаляет позицию, совпадающую по ID (не по полному равенству).
func (o *Order) RemoveItem(item OrderItem) error {
	idx := o.findItem(item.id)
	if idx < 0 {
		return ErrItemNotFound
	}
	o.items = append(o.items[:idx], o.items[idx+1:]...)
	return nil
}

// IncreaseItemQuantity увеличивает количество у позиции с itemID.
func (o *Order) IncreaseItemQuantity(itemID string, amount int) error {
	idx := o.findItem(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	o.items[idx].IncreaseQuantity(amount)
	return nil
}

// DecreaseItemQuantity уменьшает количество у позиции с itemID.
func (o *Order) DecreaseItemQuantity(itemID string, amount int) error {
	idx := o.findItem(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	o.items[idx].DecreaseQuantity(amount)
	return nil
}

func (o *Order) findItem(itemID string) int {
	for idx, item := range o.items {
		if item.id == itemID {
			return idx
		}
	}
	return -1
}
