package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-listing-client/internal/adapters/catalog_api_client"
	logger_adapter "rental-listing-client/internal/adapters/logger"
	"rental-listing-client/internal/adapters/notifier"
	rabbitmq_adapter "rental-listing-client/internal/adapters/rabbitmq"
	"rental-listing-client/internal/adapters/rest"
	"rental-listing-client/internal/configs"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/internal/core/usecase"
	fluentlogger "rental-listing-client/pkg/fluent_logger"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_common"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_consumer"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	sessions  *rest.SessionRegistry
	notifier  *notifier.SSENotifier

	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	listener      *rabbitmq_adapter.MutationListenerAdapter

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

// BuildLogger собирает stdout-логгер и, если включен, Fluent Bit.
// fluentClient нужно закрыть при завершении (может быть nil).
func BuildLogger(appConfig *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			_ = fluentClient.Close()
			return nil, nil, fmt.Errorf("failed to create fluentbit adapter: %w", err)
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			_ = fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	return baseLogger, fluentClient, nil
}

func NewApp(appConfig *configs.AppConfig) (*App, error) {
	// --- 1. ЛОГГЕРЫ ---
	baseLogger, fluentClient, err := BuildLogger(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{"fluent_enabled": appConfig.FluentBit.Enabled})

	application := &App{
		config:       appConfig,
		logger:       appLogger,
		fluentClient: fluentClient,
	}

	// --- 2. СОБЫТИЯ ОБ ИЗМЕНЕНИЯХ ---
	var mutationEvents port.MutationEventsPort = rabbitmq_adapter.NoopMutationEvents{}
	if appConfig.RabbitMQ.Enabled {
		connManagerBridge := rabbitmq_adapter.NewLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeLoggers()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		producerBridge := rabbitmq_adapter.NewLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"}))
		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             appConfig.RabbitMQ.Exchange,
			ExchangeType:             "topic",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   producerBridge,
		}, connManager)
		if err != nil {
			_ = connManager.Close()
			application.closeLoggers()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		application.eventProducer = eventProducer

		adapter, err := rabbitmq_adapter.NewMutationEventsAdapter(eventProducer, appConfig.RabbitMQ.RoutingKey, appConfig.AppName)
		if err != nil {
			application.closeBroker()
			application.closeLoggers()
			return nil, err
		}
		mutationEvents = adapter
		appLogger.Info("RabbitMQ Event Producer initialized.", port.Fields{"exchange": appConfig.RabbitMQ.Exchange})
	} else {
		appLogger.Info("RabbitMQ disabled, mutation events will not be published", nil)
	}

	// --- 3. АДАПТЕРЫ И USE CASES ---
	catalogClient := catalog_api_client.NewClient(appConfig.CatalogAPI.URL, appConfig.CatalogAPI.Timeout)
	sseNotifier := notifier.NewSSENotifier(baseLogger, rest.EncodeListingEvent)
	application.notifier = sseNotifier

	sessions := rest.NewSessionRegistry(func(sessionID string, pageSize int) rest.SessionController {
		return usecase.NewListingController(catalogClient, catalogClient, usecase.ListingControllerOptions{
			SessionID: sessionID,
			PageSize:  pageSize,
			Events:    mutationEvents,
			Notifier:  sseNotifier,
		})
	}, appConfig.Listing.SessionIdleTimeout, sseNotifier.DropSession)
	application.sessions = sessions

	if application.connManager != nil && appConfig.RabbitMQ.Listen {
		listener, err := rabbitmq_adapter.NewMutationListenerAdapter(rabbitmq_consumer.ConsumerConfig{
			ExclusiveQueue:  true,
			AutoDeleteQueue: true,
			ExchangeName:    appConfig.RabbitMQ.Exchange,
			ExchangeType:    "topic",
			DeclareExchange: true,
			DurableExchange: true,
			RoutingKey:      appConfig.RabbitMQ.RoutingKey,
			PrefetchCount:   appConfig.RabbitMQ.PrefetchCount,
			ConsumerTag:     appConfig.AppName + "-" + uuid.NewString()[:8],
		}, sessions, baseLogger, application.connManager)
		if err != nil {
			appLogger.Error("Failed to create mutation listener", err, nil)
			application.closeBroker()
			application.closeLoggers()
			return nil, fmt.Errorf("failed to create mutation listener: %w", err)
		}
		application.listener = listener
		appLogger.Info("RabbitMQ mutation listener initialized.", port.Fields{"routing_key": appConfig.RabbitMQ.RoutingKey})
	}

	getDetailsUC := usecase.NewGetPropertyDetailsUseCase(catalogClient)
	listLandlordsUC := usecase.NewListLandlordsUseCase(catalogClient)
	getLandlordUC := usecase.NewGetLandlordUseCase(catalogClient)
	appLogger.Info("All use cases initialized", nil)

	// --- 4. REST API ---
	router := rest.NewRouter(
		rest.NewSessionHandlers(sessions, sseNotifier, appConfig.Listing.DefaultPageSize),
		rest.NewCatalogHandlers(getDetailsUC, listLandlordsUC, getLandlordUC),
		appConfig.Rest.CORSAllowedOrigins,
		baseLogger,
	)
	application.apiServer = rest.NewServer(appConfig.Rest.Port, router, baseLogger)

	return application, nil
}

// Run запускает сервер и фоновую очистку сессий, ждет сигнала и корректно все останавливает.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(contextkeys.ContextWithLogger(context.Background(), a.logger))

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)
		cancelApp()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// сначала закрываем SSE-потоки, иначе Shutdown будет ждать их до таймаута
		a.notifier.Close()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.closeBroker()
		a.logger.Info("Application shut down gracefully.", nil)
		a.closeLoggers()
	}()

	a.logger.Info("Application is starting...", nil)

	go a.sessions.Run(appCtx)

	if a.listener != nil {
		go func() {
			if err := a.listener.Start(appCtx); err != nil {
				a.logger.Error("Mutation listener stopped with error", err, nil)
			}
		}()
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.Port})
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (a *App) closeBroker() {
	if a.listener != nil {
		if err := a.listener.Close(); err != nil {
			a.logger.Error("Error closing mutation listener", err, nil)
		}
	}
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
}

func (a *App) closeLoggers() {
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем напрямую
			fmt.Fprintf(os.Stderr, "ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
