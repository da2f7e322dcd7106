package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret se usa solo cuando APP_ENV=development está definido explícitamente y no hay JWT_SECRET.
const DevJWTSecret = "magazyn-dev-secret"

// DefaultImageMaxBytes límite de tamaño de imagen de un artículo (5 MiB).
const DefaultImageMaxBytes int64 = 5 * 1024 * 1024

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Image store providers.
const (
	ImageStoreMemory = "memory"
	ImageStoreS3     = "s3"
)

// Config agrupa la configuración del servidor (Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Tasks   TasksConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	DocsPath string // swagger.json; vacío o inexistente = sin /docs
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // memory | postgres
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
	DevSecret  bool // Secret es DevJWTSecret
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig almacenamiento de imágenes de artículos.
type StorageConfig struct {
	Provider      string // memory | s3
	Bucket        string
	Region        string
	Endpoint      string // S3-compatible (MinIO, etc.)
	AccessKey     string
	SecretKey     string
	BasePath      string
	ImageMaxBytes int64
}

// TasksConfig tareas programadas.
type TasksConfig struct {
	StockWatchCron string // vacío = deshabilitado
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := newViper()

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "magazyn"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			DocsPath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
		DB: DBConfig{
			Driver:      getString(v, "STORE_DRIVER", StoreMemory),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "magazyn"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "magazyn"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			ReadTimeout: time.Duration(getInt(v, "HTTP_READ_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Storage: StorageConfig{
			Provider:      getString(v, "IMAGE_STORE", ImageStoreMemory),
			Bucket:        getString(v, "S3_BUCKET", ""),
			Region:        getString(v, "S3_REGION", "eu-central-1"),
			Endpoint:      getString(v, "S3_ENDPOINT", ""),
			AccessKey:     getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:     getString(v, "S3_SECRET_KEY", ""),
			BasePath:      getString(v, "S3_BASE_PATH", "items"),
			ImageMaxBytes: int64(getInt(v, "IMAGE_MAX_BYTES", int(DefaultImageMaxBytes))),
		},
		Tasks: TasksConfig{
			StockWatchCron: getString(v, "STOCK_WATCH_CRON", "0 */15 * * * *"),
		},
	}

	if err := cfg.validate(v.IsSet("APP_ENV")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// explicitEnv indica si APP_ENV vino del entorno o de un archivo y no del valor por defecto.
func (c *Config) validate(explicitEnv bool) error {
	if c.JWT.Secret == "" {
		if c.App.Env != "development" || !explicitEnv {
			return errors.New("config: JWT_SECRET es obligatorio salvo con APP_ENV=development")
		}
		c.JWT.Secret = DevJWTSecret
		c.JWT.DevSecret = true
	}
	switch c.DB.Driver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.DB.Driver)
	}
	switch c.Storage.Provider {
	case ImageStoreMemory:
	case ImageStoreS3:
		if c.Storage.Bucket == "" {
			return errors.New("config: S3_BUCKET es obligatorio con IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("config: IMAGE_STORE desconocido %q", c.Storage.Provider)
	}
	if c.Storage.ImageMaxBytes <= 0 {
		c.Storage.ImageMaxBytes = DefaultImageMaxBytes
	}
	if c.JWT.Expiration <= 0 {
		c.JWT.Expiration = 480
	}
	return nil
}

// ClientConfig configuración del cliente de terminal.
type ClientConfig struct {
	ServerURL   string
	SessionFile string
	Timeout     time.Duration
	LogLevel    string
}

// LoadClient lee la configuración del cliente (MAGAZYN_*).
func LoadClient() (*ClientConfig, error) {
	v := newViper()

	cfg := &ClientConfig{
		ServerURL:   strings.TrimRight(getString(v, "MAGAZYN_SERVER_URL", "http://localhost:8080"), "/"),
		SessionFile: getString(v, "MAGAZYN_SESSION_FILE", ""),
		Timeout:     time.Duration(getInt(v, "MAGAZYN_TIMEOUT_SECONDS", 15)) * time.Second,
		LogLevel:    getString(v, "MAGAZYN_LOG_LEVEL", "warn"),
	}
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: directorio de configuración: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "magazyn", "session.json")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Opcional: archivo .env o config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
