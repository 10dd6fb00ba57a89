package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository для локальной
// разработки и тестов. Семантика ошибок совпадает с PostgreSQL-реализацией.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	sequence map[string]int
	nextSeq  int
}

// NewOrderRepository возвращает пустой in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		orders:   make(map[string]*domain.Order),
		sequence: make(map[string]int),
	}
}

// Create сохраняет снимок нового заказа, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID()]; exists {
		return domain.ErrOrderAlreadyExists
	}

	snapshot, err := snapshotOrder(order)
	if err != nil {
		return err
	}
	r.orders[order.ID()] = snapshot
	r.sequence[order.ID()] = r.nextSeq
	r.nextSeq++
	return nil
}

// Find возвращает снимок заказа или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Find(id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return snapshotOrder(stored)
}

// FindAll возвращает снимки всех заказов в порядке создания.
func (r *orderRepositoryInMemory) FindAll() ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return r.sequence[ids[i]] < r.sequence[ids[j]] })

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		snapshot, err := snapshotOrder(r.orders[id])
		if err != nil {
			return nil, err
		}
		result = append(result, snapshot)
	}
	return result, nil
}

// Update атомарно заменяет сохранённый снимок целиком: замена карты под
// мьютексом даёт ту же семантику "всё или ничего", что и транзакция в PostgreSQL.
func (r *orderRepositoryInMemory) Update(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID()]; !ok {
		return domain.ErrOrderNotFound
	}

	snapshot, err := snapshotOrder(order)
	if err != nil {
		return domain.NewOrderUpdateError(err)
	}
	r.orders[order.ID()] = snapshot
	return nil
}

// snapshotOrder создаёт глубокую копию через доменные конструкторы, чтобы
// хранимое состояние не было доступно для мутаций извне и перепроверялось.
func snapshotOrder(order *domain.Order) (*domain.Order, error) {
	return domain.NewOrder(order.ID(), order.CustomerID(), order.Items())
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
