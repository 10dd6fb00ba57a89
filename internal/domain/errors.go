package domain

import "errors"

// ValidationError сигнализирует о нарушении структурного инварианта агрегата.
// Вызывающая сторона может исправить вход и повторить операцию.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NotFoundError возвращается репозиторием, когда агрегат отсутствует в хранилище.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string {
	return e.msg
}

// PersistenceError скрывает причину сбоя хранилища за фиксированным сообщением.
// Исходная ошибка сохраняется внутри и доступна через errors.Unwrap для диагностики.
type PersistenceError struct {
	msg   string
	cause error
}

func (e *PersistenceError) Error() string {
	return e.msg
}

func (e *PersistenceError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по фиксированному сообщению, чтобы errors.Is работал
// с сентинелами независимо от обёрнутой причины.
func (e *PersistenceError) Is(target error) bool {
	other, ok := target.(*PersistenceError)
	if !ok {
		return false
	}
	return other.msg == e.msg
}

var (
	// ErrOrderIDRequired — у заказа отсутствует идентификатор.
	ErrOrderIDRequired = &ValidationError{msg: "Id is required"}
	// ErrCustomerRequired — у заказа отсутствует ссылка на клиента.
	ErrCustomerRequired = &ValidationError{msg: "CustomerId is required"}
	// ErrItemsRequired — заказ не может существовать без позиций.
	ErrItemsRequired = &ValidationError{msg: "Items are required"}
	// ErrItemQuantityInvalid — количество в позиции должно быть строго больше нуля.
	ErrItemQuantityInvalid = &ValidationError{msg: "Quantity must be greater than 0"}
	// ErrItemAlreadyAdded — позиция с таким ID уже есть в заказе.
	ErrItemAlreadyAdded = &ValidationError{msg: "Item is already in the order"}
	// ErrItemNotFound — позиция с таким ID в заказе отсутствует.
	ErrItemNotFound = &ValidationError{msg: "Item not found"}

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = &NotFoundError{msg: "Order not found"}

	// ErrOrderAlreadyExists — попытка создать заказ с занятым ID.
	ErrOrderAlreadyExists = &PersistenceError{msg: "Order already exists"}
	// ErrOrderUpdateFailed — транзакционное обновление откатилось целиком.
	ErrOrderUpdateFailed = &PersistenceError{msg: "Error while trying to update order"}
)

// NewOrderUpdateError оборачивает причину сбоя фиксированным сообщением об ошибке обновления.
func NewOrderUpdateError(cause error) error {
	return &PersistenceError{msg: ErrOrderUpdateFailed.msg, cause: cause}
}

// IsValidation проверяет, относится ли ошибка к нарушению инвариантов.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound проверяет, является ли ошибка отсутствием агрегата.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPersistence проверяет, является ли ошибка сбоем слоя хранения.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
