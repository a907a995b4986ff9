package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceStatic    = "static"
	CatalogSourcePostgres  = "postgres"
	CatalogSourceFirestore = "firestore"
	CatalogSourceGCS       = "gcs"
	CatalogSourceSQLite    = "sqlite"
	CatalogSourceMongoDB   = "mongodb"
)

type RESTconfig struct {
	PORT               string
	CorsAllowedOrigins []string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// CatalogConfig - откуда грузить каталог при старте.
// SnapshotPath - куда выгрузить загруженный каталог в sqlite, пусто - не выгружать.
type CatalogConfig struct {
	Source       string
	SnapshotPath string
}

type DatabaseConfig struct {
	URL string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// GCSConfig - снимок каталога в Cloud Storage, ключ сервисного аккаунта общий с Firebase
type GCSConfig struct {
	Bucket string
	Object string
}

type SQLiteConfig struct {
	Path string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type GeocoderConfig struct {
	GoogleMapsAPIKey string
	Region           string
}

type MapConfig struct {
	DefaultLatitude  float64
	DefaultLongitude float64
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
	Catalog      CatalogConfig
	Database     DatabaseConfig
	Firebase     FirebaseConfig
	GCS          GCSConfig
	SQLite       SQLiteConfig
	MongoDB      MongoDBConfig
	RabbitMQ     RabbitMQConfig
	Geocoder     GeocoderConfig
	Map          MapConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// В контейнере .env обычно нет, все приходит через окружение
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CorsAllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.Catalog.Source = strings.ToLower(getEnvAsString("CATALOG_SOURCE", CatalogSourceStatic))
	switch cfg.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourcePostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for CATALOG_SOURCE=postgres")
		}
	case CatalogSourceFirestore:
		cfg.Firebase.ProjectID = os.Getenv("FIREBASE_PROJECT_ID")
		if cfg.Firebase.ProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID environment variable is required for CATALOG_SOURCE=firestore")
		}
		cfg.Firebase.CredentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")
		cfg.Firebase.Collection = getEnvAsString("FIRESTORE_COLLECTION", "listings")
	case CatalogSourceGCS:
		cfg.GCS.Bucket = os.Getenv("GCS_BUCKET")
		if cfg.GCS.Bucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET environment variable is required for CATALOG_SOURCE=gcs")
		}
		cfg.GCS.Object = getEnvAsString("GCS_OBJECT", "catalog/listings.json")
		cfg.Firebase.CredentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")
	case CatalogSourceSQLite:
		cfg.SQLite.Path = getEnvAsString("SQLITE_PATH", "data/listings.db")
	case CatalogSourceMongoDB:
		cfg.MongoDB.URI = os.Getenv("MONGODB_URI")
		if cfg.MongoDB.URI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required for CATALOG_SOURCE=mongodb")
		}
		cfg.MongoDB.Database = getEnvAsString("MONGODB_DATABASE", "propertee")
		cfg.MongoDB.Collection = getEnvAsString("MONGODB_COLLECTION", "listings")
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q (expected static, postgres, firestore, gcs, sqlite or mongodb)", cfg.Catalog.Source)
	}

	cfg.Catalog.SnapshotPath = os.Getenv("CATALOG_SNAPSHOT_PATH")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED=true")
		}
	}

	cfg.Geocoder.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Geocoder.Region = getEnvAsString("GEOCODE_REGION", "ng")

	cfg.Map.DefaultLatitude = getEnvAsFloat("MAP_DEFAULT_LAT", 6.5244)
	cfg.Map.DefaultLongitude = getEnvAsFloat("MAP_DEFAULT_LON", 3.3792)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valFloat, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %f\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valFloat
}

// getEnvAsSlice читает список через запятую, пустые элементы отбрасываются
func getEnvAsSlice(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
