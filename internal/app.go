package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"catalog-service/internal/adapters/cache"
	logger_adapter "catalog-service/internal/adapters/logger"
	"catalog-service/internal/adapters/memory"
	rabbitmq_adapter "catalog-service/internal/adapters/rabbitmq"
	"catalog-service/internal/adapters/rest"
	"catalog-service/internal/adapters/seed"
	"catalog-service/internal/configs"
	"catalog-service/internal/constants"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/usecase"
	fluentlogger "catalog-service/pkg/fluent_logger"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_consumer"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"
	"catalog-service/schemas"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	queryCache   *cache.QueryCache
	logger       port.LoggerPort

	connManager            *rabbitmq_common.ConnectionManager
	propertyUpsertListener port.EventListenerPort
	eventsProducer         *rabbitmq_producer.Publisher
}

// NewApp - composition root: здесь создаются и связываются все зависимости.
// Пустой envPath - .env из рабочей директории, если он есть.
func NewApp(envPath string) (*App, error) {
	appConfig, err := configs.LoadConfig(envPath)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- логгеры ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- хранилище и стартовые данные ---
	store := memory.NewPropertyStore()
	if appConfig.Seed.Enabled {
		loader := seed.NewLoader(store, baseLogger.WithFields(port.Fields{"component": "seed"}))
		if _, err := loader.LoadFile(context.Background(), appConfig.Seed.File); err != nil {
			appLogger.Error("Failed to seed catalog", err, port.Fields{"seed_file": appConfig.Seed.File})
			application.closeResources()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// интерфейсы остаются nil, если компонент выключен
	var queryCache port.QueryCachePort
	if appConfig.QueryCache.Enabled {
		application.queryCache = cache.NewQueryCache(cache.Config{
			MaxSize: appConfig.QueryCache.Size,
			TTL:     appConfig.QueryCache.TTL,
		}, baseLogger.WithFields(port.Fields{"component": "query_cache"}))
		queryCache = application.queryCache
	}

	var propertyEvents port.PropertyEventsPort
	var eventRegistry *contracts.Registry
	if appConfig.RabbitMQ.Enabled {
		eventRegistry, err = contracts.NewRegistry(schemas.SchemasFS, "events")
		if err != nil {
			appLogger.Error("Failed to compile event schemas", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to compile event schemas: %w", err)
		}

		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		application.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		application.eventsProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.CatalogExchange,
			ExchangeType:             constants.CatalogExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, application.connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}

		eventsAdapter, err := rabbitmq_adapter.NewPropertyEventsAdapter(application.eventsProducer, constants.PropertySavedRoutingKey, eventRegistry)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		propertyEvents = eventsAdapter
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)
	}

	// --- use cases ---
	listUseCase := usecase.NewListPropertiesUseCase(store, queryCache)
	getUseCase := usecase.NewGetPropertyUseCase(store)
	searchUseCase := usecase.NewSearchPropertiesUseCase(store, queryCache)
	featuredUseCase := usecase.NewFeaturedPropertiesUseCase(store)
	saveUseCase := usecase.NewSavePropertyUseCase(store, propertyEvents)
	deleteUseCase := usecase.NewDeletePropertyUseCase(store)
	statsUseCase := usecase.NewCatalogStatsUseCase(store)
	appLogger.Info("All use cases initialized.", nil)

	// --- входящие адаптеры ---
	if appConfig.RabbitMQ.Enabled {
		consumerCfg := rabbitmq_consumer.ConsumerConfig{
			Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			QueueName:              constants.PropertyUpsertQueue,
			DeclareQueue:           true,
			DurableQueue:           true,
			ExchangeNameForBind:    constants.CatalogExchange,
			DeclareExchangeForBind: true,
			ExchangeTypeForBind:    constants.CatalogExchangeType,
			DurableExchangeForBind: true,
			RoutingKeyForBind:      constants.PropertyUpsertRoutingKey,
			PrefetchCount:          10,
			ConsumerTag:            appConfig.AppName + "-property-upserts",

			EnableRetryMechanism: true,
			RetryExchange:        constants.PropertyUpsertRetryExchange,
			RetryQueue:           constants.PropertyUpsertRetryQueue,
			RetryTTL:             constants.PropertyUpsertRetryTTLMs,
			FinalDLXExchange:     constants.PropertyUpsertFinalDLX,
			FinalDLQ:             constants.PropertyUpsertFinalDLQ,
			FinalDLQRoutingKey:   constants.PropertyUpsertFinalDLQKey,
			MaxRetries:           constants.PropertyUpsertMaxRetries,
		}
		listener, err := rabbitmq_adapter.NewPropertyUpsertConsumerAdapter(consumerCfg, saveUseCase, eventRegistry, baseLogger, application.connManager)
		if err != nil {
			appLogger.Error("Failed to create property upsert listener", err, nil)
			application.closeResources()
			return nil, err
		}
		application.propertyUpsertListener = listener
		appLogger.Info("Property upsert listener initialized.", nil)
	}

	propertyHandlers := rest.NewPropertyHandler(listUseCase, getUseCase, searchUseCase, featuredUseCase)
	adminHandlers := rest.NewAdminHandler(saveUseCase, deleteUseCase, statsUseCase)
	router := rest.NewRouter(propertyHandlers, adminHandlers, appConfig.Rest.CORSAllowedOrigins, baseLogger)
	application.apiServer = rest.NewServer(appConfig.Rest.PORT, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает компоненты и ждет сигнала ОС или отказа одного из них
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	if a.propertyUpsertListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Property Upsert Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.propertyUpsertListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("property upsert listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)
	cancelApp()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

// closeResources закрывает то, что успело создаться; порядок обратный созданию
func (a *App) closeResources() {
	if a.propertyUpsertListener != nil {
		if err := a.propertyUpsertListener.Close(); err != nil {
			a.logger.Error("Error closing property upsert listener", err, nil)
		}
	}
	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.queryCache != nil {
		a.queryCache.Close()
	}

	a.logger.Info("Application resources released.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, поэтому в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
