package checkout

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// EventPublisher публикует события заказов. Реализуется Kafka-продюсером;
// nil означает, что публикация отключена.
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// ItemInput — входные данные одной позиции от вызывающего слоя.
// Пустой ID означает, что идентификатор нужно сгенерировать.
type ItemInput struct {
	ID        string
	Name      string
	Price     float64
	ProductID string
	Quantity  int
}

// Service — прикладной сервис заказов: собирает агрегат, гоняет его через
// репозиторий и публикует события после успешных записей.
type Service struct {
	repo      domain.OrderRepository
	publisher EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewService конструирует сервис с зависимостями.
func NewService(repo domain.OrderRepository, publisher EventPublisher, m *metrics.OrderMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout-service")
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// PlaceOrder создаёт заказ из входных позиций и сохраняет его полный снимок.
func (s *Service) PlaceOrder(customerID string, inputs []ItemInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := buildItem(input)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(uuid.NewString(), customerID, items)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.publishEvent(kafka.EventTypeOrderCreated, order)
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID(),
		"customer_id": order.CustomerID(),
		"items":       len(order.Items()),
	}).Info("order placed")

	return order, nil
}

// GetOrder восстанавливает заказ из хранилища.
func (s *Service) GetOrder(id string) (*domain.Order, error) {
	return s.repo.Find(id)
}

// ListOrders восстанавливает все заказы.
func (s *Service) ListOrders() ([]*domain.Order, error) {
	return s.repo.FindAll()
}

// AddItem добавляет позицию в заказ и атомарно сохраняет изменения.
func (s *Service) AddItem(orderID string, input ItemInput) (*domain.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}

	item, err := buildItem(input)
	if err != nil {
		return nil, err
	}
	if err := order.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.saveUpdate(order); err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem удаляет позицию по ID и атомарно сохраняет изменения.
func (s *Service) RemoveItem(orderID, itemID string) (*domain.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}

	removed := false
	for _, item := range order.Items() {
		if item.ID() == itemID {
			if err := order.RemoveItem(item); err != nil {
				return nil, err
			}
			removed = true
			break
		}
	}
	if !removed {
		return nil, domain.ErrItemNotFound
	}

	if err := s.saveUpdate(order); err != nil {
		return nil, err
	}
	return order, nil
}

// IncreaseItemQuantity увеличивает количество у позиции и сохраняет заказ.
func (s *Service) IncreaseItemQuantity(orderID, itemID string, amount int) (*domain.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}
	if err := order.IncreaseItemQuantity(itemID, amount); err != nil {
		return nil, err
	}

	if err := s.saveUpdate(order); err != nil {
		return nil, err
	}
	return order, nil
}

// DecreaseItemQuantity уменьшает количество у позиции и сохраняет заказ.
// Уход количества в ноль и ниже на этом слое намеренно не перехватывается:
// его отклонит ограничение схемы внутри транзакции.
func (s *Service) DecreaseItemQuantity(orderID, itemID string, amount int) (*domain.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}
	if err := order.DecreaseItemQuantity(itemID, amount); err != nil {
		return nil, err
	}

	if err := s.saveUpdate(order); err != nil {
		return nil, err
	}
	return order, nil
}

// saveUpdate прогоняет транзакционную сверку и снимает метрики/события.
func (s *Service) saveUpdate(order *domain.Order) error {
	start := time.Now()
	err := s.repo.Update(order)
	if s.metrics != nil {
		s.metrics.RecordUpdateDuration(time.Since(start))
	}
	if err != nil {
		if s.metrics != nil && domain.IsPersistence(err) {
			s.metrics.RecordUpdateRollback()
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderUpdated()
	}
	s.publishEvent(kafka.EventTypeOrderUpdated, order)
	return nil
}

// publishEvent отправляет событие заказа; сбой публикации не валит операцию.
func (s *Service) publishEvent(eventType kafka.EventType, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	items := order.Items()
	eventItems := make([]kafka.OrderEventItem, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, kafka.OrderEventItem{
			ID:        item.ID(),
			Name:      item.Name(),
			Price:     item.Price(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
		})
	}

	event := kafka.NewOrderEvent(eventType, order.ID(), order.CustomerID(), order.Total(), eventItems)
	if err := s.publisher.PublishEvent(kafka.TopicOrderEvents, order.ID(), event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID(),
			"event_type": eventType,
		}).Warn("failed to publish order event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOrderEvent()
	}
}

func buildItem(input ItemInput) (domain.OrderItem, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	return domain.NewOrderItem(id, input.Name, input.Price, input.ProductID, input.Quantity)
}
