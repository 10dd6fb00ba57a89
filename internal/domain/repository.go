package domain

// OrderRepository описывает требования к хранилищу заказов.
// Реализации сами управляют таймаутами своих операций.
type OrderRepository interface {
	// Create сохраняет полный снимок нового заказа вместе с позициями.
	// Возвращает ErrOrderAlreadyExists, если ID уже занят.
	Create(order *Order) error
	// Find восстанавливает заказ по идентификатору или возвращает ErrOrderNotFound.
	// Повреждённые строки не проходят доменную валидацию при загрузке.
	Find(id string) (*Order, error)
	// FindAll восстанавливает все сохранённые заказы; пустой срез, если их нет.
	FindAll() ([]*Order, error)
	// Update атомарно сводит сохранённые позиции с актуальным состоянием агрегата:
	// обновляет совпавшие по ID, удаляет исчезнувшие, вставляет новые.
	// Любой сбой откатывает транзакцию целиком и возвращает ErrOrderUpdateFailed.
	Update(order *Order) error
}
