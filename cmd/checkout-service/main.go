package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/app"
)

const (
	envHTTPAddr     = "CHECKOUT_HTTP_ADDR"
	envMetricsAddr  = "CHECKOUT_METRICS_ADDR"
	envPostgresDSN  = "CHECKOUT_POSTGRES_DSN"
	envKafkaBrokers = "CHECKOUT_KAFKA_BROKERS"
)

// envLookup абстрагирует чтение переменных окружения для тестируемости.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию приложения, позволяя переопределить
// адреса и подключения через переменные окружения.
func readConfigFromEnv(lookup envLookup) app.Config {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	cfg := app.DefaultConfig()
	if v, ok := lookup(envHTTPAddr); ok && strings.TrimSpace(v) != "" {
		cfg.HTTPAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPostgresDSN); ok {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = strings.TrimSpace(v)
	}
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfigFromEnv(os.LookupEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
	}).Info("запускаем CheckoutService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("CheckoutService остановлен")
}
