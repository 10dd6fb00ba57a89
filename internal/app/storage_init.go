package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
)

// Storage объединяет репозиторий заказов и, при использовании Postgres,
// само подключение для health-проверок и закрытия.
type Storage struct {
	Repo  domain.OrderRepository
	Store *postgres.Store
}

// Close закрывает подключение к Postgres, если оно открыто.
func (s *Storage) Close(logger *log.Entry) {
	if s.Store == nil {
		return
	}
	if err := s.Store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}

// initStorage выбирает хранилище: Postgres при заданном DSN, иначе in-memory.
// Перед использованием Postgres накатываются миграции схемы.
func initStorage(ctx context.Context, dsn string, logger *log.Entry) (*Storage, error) {
	if dsn == "" {
		logger.Info("postgres DSN не задан, используем in-memory хранилище")
		return &Storage{Repo: memory.NewOrderRepository()}, nil
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("postgres хранилище инициализировано")
	return &Storage{
		Repo:  postgres.NewOrderRepository(store),
		Store: store,
	}, nil
}
