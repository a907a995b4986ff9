package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	catalog_adapter "listing-service/internal/adapters/catalog"
	firestore_adapter "listing-service/internal/adapters/firestore"
	"listing-service/internal/adapters/gcs"
	"listing-service/internal/adapters/googlemaps"
	logger_adapter "listing-service/internal/adapters/logger"
	"listing-service/internal/adapters/mongodb"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	"listing-service/internal/adapters/rest"
	"listing-service/internal/adapters/sqlite"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	catalogLoadTimeout = 30 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	firestore    *firestore_adapter.CatalogLoader
	gcsLoader    *gcs.CatalogLoader
	sqliteDB     *sqlite.CatalogLoader
	mongoLoader  *mongodb.CatalogLoader
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	connManager           *rabbitmq_common.ConnectionManager
	listingEventsProducer *rabbitmq_producer.Publisher
	listingEventsListener port.EventListenerPort
}

// NewApp - composition root: здесь все зависимости создаются и связываются
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	application := &App{config: appConfig}
	fail := func(err error) (*App, error) {
		application.closeResources()
		application.closeFluent()
		return nil, err
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
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
		application.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewFanOutLogger(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fan-out logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	application.logger = appLogger

	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. КАТАЛОГ ---
	store := catalog_adapter.NewStore()

	loader, err := application.newCatalogLoader()
	if err != nil {
		appLogger.Error("Failed to create catalog loader", err, port.Fields{"source": appConfig.Catalog.Source})
		return fail(err)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), catalogLoadTimeout)
	rawRecords, err := loader.Load(loadCtx)
	cancelLoad()
	if err != nil {
		appLogger.Error("Failed to load catalog", err, port.Fields{"source": loader.Name()})
		return fail(fmt.Errorf("failed to load catalog from %s: %w", loader.Name(), err))
	}

	catalogLogger := baseLogger.WithFields(port.Fields{"component": "catalog", "source": loader.Name()})
	store.Replace(catalog_adapter.Sanitize(rawRecords, catalogLogger))
	appLogger.Info("Catalog loaded", port.Fields{
		"source": loader.Name(), "raw_records": len(rawRecords), "records": store.Len(),
	})

	if appConfig.Catalog.SnapshotPath != "" && appConfig.Catalog.Source != configs.CatalogSourceSQLite {
		// снимок не обязателен, сервис стартует и без него
		if err := writeCatalogSnapshot(appConfig.Catalog.SnapshotPath, store.All()); err != nil {
			appLogger.Warn("Failed to write catalog snapshot", port.Fields{
				"path": appConfig.Catalog.SnapshotPath, "error": err.Error(),
			})
		} else {
			appLogger.Info("Catalog snapshot written", port.Fields{"path": appConfig.Catalog.SnapshotPath})
		}
	}

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	// Интерфейсы остаются nil, если интеграция выключена
	var geocoder port.GeocoderPort
	if appConfig.Geocoder.GoogleMapsAPIKey != "" {
		mapsGeocoder, err := googlemaps.NewGeocoder(appConfig.Geocoder.GoogleMapsAPIKey, appConfig.Geocoder.Region)
		if err != nil {
			appLogger.Error("Failed to create geocoder", err, nil)
			return fail(err)
		}
		geocoder = mapsGeocoder
		appLogger.Info("Google Maps geocoder initialized.", port.Fields{"region": appConfig.Geocoder.Region})
	} else {
		appLogger.Warn("GOOGLE_MAPS_API_KEY is not set, submitted listings must carry coordinates", nil)
	}

	var eventsPublisher port.ListingEventsPublisherPort
	if appConfig.RabbitMQ.Enabled {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return fail(fmt.Errorf("failed to create connection manager: %w", err))
		}
		application.connManager = connManager
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             constants.ListingsExchange,
			ExchangeType:             constants.ListingsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			return fail(fmt.Errorf("failed to create event producer: %w", err))
		}
		application.listingEventsProducer = producer

		publisherAdapter, err := rabbitmq_adapter.NewListingEventsPublisherAdapter(producer)
		if err != nil {
			return fail(err)
		}
		eventsPublisher = publisherAdapter
		appLogger.Info("RabbitMQ listing events producer initialized.", nil)
	} else {
		appLogger.Warn("RabbitMQ is disabled, submitted listings go straight to the catalog", nil)
	}

	// --- 4. USE CASES ---
	defaultRegion := domain.DefaultMapRegion
	defaultRegion.Latitude = appConfig.Map.DefaultLatitude
	defaultRegion.Longitude = appConfig.Map.DefaultLongitude

	findListingsUseCase := usecase.NewFindListingsUseCase(store)
	getListingDetailsUseCase := usecase.NewGetListingDetailsUseCase(store)
	submitListingUseCase := usecase.NewSubmitListingUseCase(store, eventsPublisher, geocoder)
	getMapMarkersUseCase := usecase.NewGetMapMarkersUseCase(store, defaultRegion)
	getMarkerClustersUseCase := usecase.NewGetMarkerClustersUseCase(store)
	getCategoriesUseCase := usecase.NewGetCategoriesUseCase()
	getCatalogStatsUseCase := usecase.NewGetCatalogStatsUseCase(store)
	getSellerListingsUseCase := usecase.NewGetSellerListingsUseCase(store)
	applyListingEventUseCase := usecase.NewApplyListingEventUseCase(store)

	appLogger.Info("All use cases initialized.", nil)

	// --- 5. ВХОДЯЩИЕ АДАПТЕРЫ ---
	if application.connManager != nil {
		listener, err := rabbitmq_adapter.NewListingEventsConsumerAdapter(
			rabbitmq_adapter.DefaultConsumerConfig(appConfig.AppName+"-listing-events"),
			applyListingEventUseCase,
			baseLogger,
			application.connManager,
		)
		if err != nil {
			appLogger.Error("Failed to create listing events listener", err, nil)
			return fail(err)
		}
		application.listingEventsListener = listener
		appLogger.Info("Listing Events Listener initialized.", nil)
	}

	listingsHandler := rest.NewListingsHandler(findListingsUseCase, getListingDetailsUseCase, submitListingUseCase)
	mapHandler := rest.NewMapHandler(getMapMarkersUseCase, getMarkerClustersUseCase)
	catalogInfoHandler := rest.NewCatalogInfoHandler(getCategoriesUseCase, getCatalogStatsUseCase, getSellerListingsUseCase, store)

	application.apiServer = rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.CorsAllowedOrigins,
		listingsHandler, mapHandler, catalogInfoHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// newCatalogLoader выбирает источник каталога по CATALOG_SOURCE
func (a *App) newCatalogLoader() (port.CatalogLoaderPort, error) {
	switch a.config.Catalog.Source {
	case configs.CatalogSourcePostgres:
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: a.config.Database.URL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)
		return postgres_adapter.NewCatalogLoader(dbPool), nil

	case configs.CatalogSourceFirestore:
		loader, err := firestore_adapter.NewCatalogLoader(context.Background(), firestore_adapter.Config{
			ProjectID:       a.config.Firebase.ProjectID,
			CredentialsFile: a.config.Firebase.CredentialsFile,
			Collection:      a.config.Firebase.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		a.firestore = loader
		a.logger.Info("Firestore client initialized.", port.Fields{"project_id": a.config.Firebase.ProjectID})
		return loader, nil

	case configs.CatalogSourceGCS:
		loader, err := gcs.NewCatalogLoader(context.Background(), gcs.Config{
			Bucket:          a.config.GCS.Bucket,
			Object:          a.config.GCS.Object,
			CredentialsFile: a.config.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
		}
		a.gcsLoader = loader
		a.logger.Info("Cloud Storage client initialized.", port.Fields{"bucket": a.config.GCS.Bucket})
		return loader, nil

	case configs.CatalogSourceSQLite:
		loader, err := sqlite.Open(context.Background(), a.config.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite catalog: %w", err)
		}
		a.sqliteDB = loader
		a.logger.Info("SQLite catalog opened.", port.Fields{"path": a.config.SQLite.Path})
		return loader, nil

	case configs.CatalogSourceMongoDB:
		loader, err := mongodb.NewCatalogLoader(context.Background(), mongodb.Config{
			URI:        a.config.MongoDB.URI,
			Database:   a.config.MongoDB.Database,
			Collection: a.config.MongoDB.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		a.mongoLoader = loader
		a.logger.Info("Successfully connected to MongoDB!", port.Fields{"database": a.config.MongoDB.Database})
		return loader, nil

	default:
		return catalog_adapter.NewStaticLoader(), nil
	}
}

// writeCatalogSnapshot выгружает каталог в sqlite-файл, его потом можно
// подключить как CATALOG_SOURCE=sqlite без внешних зависимостей
func writeCatalogSnapshot(path string, records []domain.ListingRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
	defer cancel()

	snapshot, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer snapshot.Close()

	return snapshot.Save(ctx, records)
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.closeResources()
		a.logger.Info("Application shut down gracefully.", nil)
		a.closeFluent()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 2)

	if a.listingEventsListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Listing Events Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.listingEventsListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("listing events listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil {
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

	cancelApp()
	return runErr
}

// closeResources закрывает все, что успело открыться. Вызывается и при ошибке в NewApp.
func (a *App) closeResources() {
	if a.listingEventsListener != nil {
		if err := a.listingEventsListener.Close(); err != nil {
			a.logger.Error("Error closing listing events listener", err, nil)
		}
	}
	if a.listingEventsProducer != nil {
		if err := a.listingEventsProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.firestore != nil {
		if err := a.firestore.Close(); err != nil {
			a.logger.Error("Error closing firestore client", err, nil)
		}
	}
	if a.gcsLoader != nil {
		if err := a.gcsLoader.Close(); err != nil {
			a.logger.Error("Error closing cloud storage client", err, nil)
		}
	}
	if a.sqliteDB != nil {
		if err := a.sqliteDB.Close(); err != nil {
			a.logger.Error("Error closing sqlite catalog", err, nil)
		}
	}
	if a.mongoLoader != nil {
		if err := a.mongoLoader.Close(); err != nil {
			a.logger.Error("Error disconnecting from mongodb", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}
}

func (a *App) closeFluent() {
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, пишем в stdout
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
