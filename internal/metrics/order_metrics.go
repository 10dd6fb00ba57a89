package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики операций репозитория
	ordersCreated   prometheus.Counter
	orderUpdates    prometheus.Counter
	updateRollbacks prometheus.Counter

	// Гистограмма времени транзакционной сверки
	updateDuration prometheus.Histogram

	// Счётчик опубликованных событий заказов
	orderEvents prometheus.Counter
}

// NewOrderMetrics создаёт метрики в дефолтном регистре Prometheus.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Total number of orders persisted",
		}),
		orderUpdates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_order_updates_total",
			Help: "Total number of successful order update reconciliations",
		}),
		updateRollbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_order_update_rollbacks_total",
			Help: "Total number of order updates rolled back on failure",
		}),
		updateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_order_update_duration_seconds",
			Help:    "Duration of transactional order updates in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		orderEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_order_events_total",
			Help: "Total number of order events published",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderUpdated увеличивает счётчик успешных сверок.
func (m *OrderMetrics) RecordOrderUpdated() {
	m.orderUpdates.Inc()
}

// RecordUpdateRollback увеличивает счётчик откатившихся обновлений.
func (m *OrderMetrics) RecordUpdateRollback() {
	m.updateRollbacks.Inc()
}

// RecordUpdateDuration записывает время транзакционной сверки.
func (m *OrderMetrics) RecordUpdateDuration(duration time.Duration) {
	m.updateDuration.Observe(duration.Seconds())
}

// RecordOrderEvent увеличивает счётчик опубликованных событий.
func (m *OrderMetrics) RecordOrderEvent() {
	m.orderEvents.Inc()
}
