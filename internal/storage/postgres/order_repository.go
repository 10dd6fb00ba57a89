package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{
		db:     store.DB(),
		logger: log.WithField("component", "order-repository"),
	}
}

// Create сохраняет полный снимок заказа: строку заказа и по строке на каждую позицию.
func (r *orderRepository) Create(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total)
		VALUES ($1, $2, $3)
	`, order.ID(), order.CustomerID(), order.Total())
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrOrderAlreadyExists
			return err
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for position, item := range order.Items() {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			item.ID(), order.ID(), item.ProductID(), item.Name(), item.Price(), item.Quantity(), position,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

// Find восстанавливает заказ, прогоняя сохранённые строки через доменные конструкторы:
// повреждённая запись поднимет ошибку валидации вместо тихой загрузки.
func (r *orderRepository) Find(id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customerID string
	err := r.db.QueryRowContext(ctx, `
		SELECT customer_id
		FROM orders
		WHERE id = $1
	`, id).Scan(&customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.NewOrder(id, customerID, items)
}

// FindAll восстанавливает все заказы; пустой срез, если хранилище пусто.
func (r *orderRepository) FindAll() ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id
		FROM orders
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	type orderRow struct {
		id         string
		customerID string
	}

	orderRows := make([]orderRow, 0)
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(&row.id, &row.customerID); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orderRows = append(orderRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	orders := make([]*domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		items, err := r.loadItems(ctx, row.id)
		if err != nil {
			return nil, err
		}
		order, err := domain.NewOrder(row.id, row.customerID, items)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// Update атомарно сводит сохранённые позиции с актуальным состоянием агрегата.
// Любой сбой, кроме отсутствия заказа, откатывает транзакцию целиком и
// возвращает фиксированную ошибку обновления; причина сохраняется внутри
// через errors.Unwrap и пишется в лог.
func (r *orderRepository) Update(order *domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewOrderUpdateError(fmt.Errorf("begin tx: %w", err))
	}

	if err := r.reconcileItems(ctx, tx, order); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		r.logger.WithError(err).WithField("order_id", order.ID()).Error("order update rolled back")
		return domain.NewOrderUpdateError(err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		r.logger.WithError(err).WithField("order_id", order.ID()).Error("order update rolled back")
		return domain.NewOrderUpdateError(fmt.Errorf("commit update order: %w", err))
	}

	return nil
}

// reconcileItems выполняет diff-сверку внутри открытой транзакции:
// совпавшие по ID строки перезаписываются, исчезнувшие удаляются, новые вставляются.
func (r *orderRepository) reconcileItems(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1,
		    total = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, order.CustomerID(), order.Total(), order.ID())
	if err != nil {
		return fmt.Errorf("update order row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	persisted, err := loadItemIDs(ctx, tx, order.ID())
	if err != nil {
		return err
	}

	for position, item := range order.Items() {
		if persisted[item.ID()] {
			if _, err := tx.ExecContext(ctx, `
				UPDATE order_items
				SET product_id = $1, name = $2, price = $3, quantity = $4, position = $5
				WHERE id = $6 AND order_id = $7
			`, item.ProductID(), item.Name(), item.Price(), item.Quantity(), position, item.ID(), order.ID()); err != nil {
				return fmt.Errorf("update order item %s: %w", item.ID(), err)
			}
			delete(persisted, item.ID())
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID(), order.ID(), item.ProductID(), item.Name(), item.Price(), item.Quantity(), position); err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ID(), err)
		}
	}

	// В persisted остались строки, которых больше нет в агрегате.
	for itemID := range persisted {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM order_items
			WHERE id = $1 AND order_id = $2
		`, itemID, order.ID()); err != nil {
			return fmt.Errorf("delete order item %s: %w", itemID, err)
		}
	}

	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, product_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var (
			id        string
			name      string
			price     float64
			productID string
			quantity  int
		)
		if err := rows.Scan(&id, &name, &price, &productID, &quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item, err := domain.NewOrderItem(id, name, price, productID, quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func loadItemIDs(ctx context.Context, tx *sql.Tx, orderID string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load persisted item ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan persisted item id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persisted item ids: %w", err)
	}

	return ids, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
