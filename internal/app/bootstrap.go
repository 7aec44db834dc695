package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gunvolt24/pos_reports/config"
	cachemem "github.com/Gunvolt24/pos_reports/internal/cache/memory"
	"github.com/Gunvolt24/pos_reports/internal/client"
	"github.com/Gunvolt24/pos_reports/internal/connectivity"
	"github.com/Gunvolt24/pos_reports/internal/delivery"
	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/kafka"
	"github.com/Gunvolt24/pos_reports/internal/notify"
	"github.com/Gunvolt24/pos_reports/internal/offline"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/internal/repo/postgres"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
	memstore "github.com/Gunvolt24/pos_reports/internal/storage/memory"
	pgstore "github.com/Gunvolt24/pos_reports/internal/storage/postgres"
	redisstore "github.com/Gunvolt24/pos_reports/internal/storage/redis"
	rest "github.com/Gunvolt24/pos_reports/internal/transport/http"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
	"github.com/Gunvolt24/pos_reports/pkg/logger"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
	"github.com/Gunvolt24/pos_reports/pkg/telemetry"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

const (
	sourceAPI      = "api"
	sourcePostgres = "postgres"

	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
)

// Worker — фоновая задача, живущая до отмены контекста.
type Worker struct {
	Name string
	Run  func(ctx context.Context) error
}

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer, фоновые задачи).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	MetricsServer   *http.Server          // отдельный /metrics; nil — только на основном роутере
	KafkaConsumer   ports.MessageConsumer // консьюмер заказов; nil — приём из Kafka выключен
	Workers         []Worker              // монитор связи, синхронизация очереди
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// closers — освобождение ресурсов в обратном порядке.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// needsPostgres — Postgres нужен заказам, очереди или приёму из Kafka.
func needsPostgres(cfg *config.Config) bool {
	return cfg.Orders.Source == sourcePostgres ||
		cfg.Queue.Backend == backendPostgres ||
		cfg.Kafka.Enabled
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	var cl closers
	cl.add(func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	})
	fail := func(err error) (*App, Cleanup, error) {
		cl.run()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			cl.add(func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return fail(fmt.Errorf("load timezone %q: %w", cfg.Report.Timezone, err))
	}
	domain.SetLocalZone(loc)

	// Пул подключений Postgres и миграции.
	var pool *pgxpool.Pool
	if needsPostgres(cfg) {
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, cfg.Postgres.MigrationsDir); err != nil {
				return fail(fmt.Errorf("migrate: %w", err))
			}
		}
		pool, err = postgres.NewPool(ctx, cfg.Postgres.DSN, postgres.PoolOptions{
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
		})
		if err != nil {
			return fail(fmt.Errorf("postgres pool: %w", err))
		}
		cl.add(pool.Close)
	}

	// Уведомления: лог, лента для /notices и (опционально) RabbitMQ.
	recorder := notify.NewRecorder(cfg.Notices.Size)
	targets := []ports.Notifier{notify.NewLogNotifier(logg), recorder}
	if cfg.AMQP.URL != "" {
		amqpNotifier, closeAMQP, aErr := notify.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, logg)
		if aErr != nil {
			logg.Warnf(ctx, "amqp notifier disabled: %v", aErr)
		} else {
			targets = append(targets, amqpNotifier)
			cl.add(func() {
				if cErr := closeAMQP(); cErr != nil {
					logg.Warnf(ctx, "amqp close: %v", cErr)
				}
			})
		}
	}
	notifier := notify.NewFanout(targets...)

	// Хранилище офлайн-очереди.
	store, closeStore, err := openQueueStore(ctx, cfg, pool)
	if err != nil {
		return fail(err)
	}
	cl.add(closeStore)
	queue := offline.NewQueue(store, logg, domain.QueueTypeUserRegistration)
	logg.Infof(ctx, "offline queue backend=%s pending=%d", cfg.Queue.Backend, len(queue.Pending(ctx)))

	// Источник заказов для отчётов.
	reportCache := cachemem.NewReportCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	var (
		source    ports.OrderSource
		orderRepo *postgres.OrderRepository
	)
	if pool != nil {
		orderRepo = postgres.NewOrderRepository(pool)
		if n, cErr := orderRepo.Count(ctx); cErr != nil {
			logg.Warnf(ctx, "count orders failed: %v", cErr)
		} else {
			logg.Infof(ctx, "orders in store: %d", n)
		}
	}
	switch cfg.Orders.Source {
	case sourceAPI:
		source = client.NewOrdersClient(cfg.Orders.BaseURL, cfg.Orders.Timeout)
	case sourcePostgres:
		source = orderRepo
	default:
		return fail(fmt.Errorf("unknown orders source %q", cfg.Orders.Source))
	}

	// Связь и синхронизация очереди.
	registrar := client.NewRegistrationClient(cfg.Registration.BaseURL, cfg.Registration.Timeout)
	coordinator := offline.NewCoordinator(queue, registrar, notifier, logg)

	var conn ports.Connectivity = connectivity.Static(true)
	var workers []Worker
	if cfg.Sync.ProbeURL != "" {
		monitor := connectivity.NewMonitor(cfg.Sync.ProbeURL, cfg.Sync.Interval, cfg.Sync.Timeout, logg)
		conn = monitor
		workers = append(workers, Worker{Name: "connectivity monitor", Run: monitor.Run})
	}
	workers = append(workers, Worker{Name: "offline sync", Run: func(ctx context.Context) error {
		coordinator.Watch(ctx, conn)
		return ctx.Err()
	}})

	// Прикладные сервисы.
	resolver := reporting.NewResolver(time.Now, loc)
	reports := usecase.NewReportService(source, reportCache, notifier, resolver, logg)
	if cfg.Report.ExportDir != "" {
		reports.WithDelivery(delivery.NewDir(cfg.Report.ExportDir))
	}
	registrations := usecase.NewRegistrationService(registrar, queue, conn, notifier, logg)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(rest.Services{
		Reports:       reports,
		Registrations: registrations,
		Queue:         queue,
		Sync:          coordinator,
		Notices:       recorder,
	}, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, cfg.HTTP.StaticDir, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" && cfg.Metrics.Addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	// Конфигурация и создание консьюмера Kafka.
	var consumer ports.MessageConsumer
	if cfg.Kafka.Enabled {
		ingest := usecase.NewIngestService(orderRepo, reportCache, logg, validate.NewOrderValidator())
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		consumer = kafka.NewConsumer(&kafkaCfg, ingest, logg)
		cl.add(func() {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		})
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		Workers:         workers,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	return app, Cleanup(cl.run), nil
}

// openQueueStore — KV-хранилище офлайн-очереди по конфигурации и функция его закрытия.
func openQueueStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (ports.KVStore, func(), error) {
	switch cfg.Queue.Backend {
	case backendMemory:
		return memstore.NewStore(), func() {}, nil
	case backendRedis:
		rdb, err := redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return redisstore.NewStore(rdb, cfg.Redis.Namespace), func() { _ = rdb.Close() }, nil
	case backendPostgres:
		return pgstore.NewStore(pool), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
	}
}

// Run — запускает HTTP-сервер, консьюмера и фоновые задачи; ждёт отмены контекста
// или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	errCh := make(chan error, 3+len(a.Workers))

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(runCtx); err != nil {
				errCh <- err
			}
		}()
	}

	// Фоновые задачи: остановка по отмене контекста не считается ошибкой.
	for _, w := range a.Workers {
		go func() {
			a.Logger.Infof(ctx, "%s starting", w.Name)
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("%s: %w", w.Name, err)
			}
		}()
	}

	// Запуск HTTP-серверов.
	for _, srv := range a.servers() {
		go func() {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}
	stop()

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-серверов.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range a.servers() {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed addr=%s: %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully addr=%s", srv.Addr)
		}
	}

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}

func (a *App) servers() []*http.Server {
	srvs := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		srvs = append(srvs, a.MetricsServer)
	}
	return srvs
}
