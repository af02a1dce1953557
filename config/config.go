package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"
	ENV_PATH    = ".env"

	// environment overrides
	EnvAppEnv       = "APP_ENV"
	EnvJWTSecret    = "JWT_SECRET"
	EnvMongoURI     = "MONGO_URI"
	EnvMongoURITest = "MONGO_URI_TEST"
	EnvPostgresDSN  = "POSTGRES_DSN"
	EnvPort         = "PORT"
	EnvLogLevel     = "LOG_LEVEL"

	AppEnvTest = "test"

	DatabaseTypeMongo    = "mongo"
	DatabaseTypePostgres = "postgres"
	DatabaseTypeMemory   = "memory"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName    string          `yaml:"service_name" validate:"required"`
	LogLevel       string          `yaml:"loglevel" validate:"required"`
	Host           string          `yaml:"host"`
	Port           string          `yaml:"port" validate:"required"`
	PrivateKeyPath string          `yaml:"private_key_path"`
	TokenSecret    string          `yaml:"token_secret" validate:"required_without=PrivateKeyPath"`
	TokenTTL       time.Duration   `yaml:"token_ttl" validate:"gte=0"`
	BcryptCost     int             `yaml:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Database       Database        `yaml:"database"`
}

// RateLimitConfig bounds signup and login requests. A zero rate disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

type Database struct {
	Type string `yaml:"type" validate:"required,oneof=mongo postgres memory"`
	// Transactions wraps multi-document writes in a transaction when the backend supports it.
	Transactions bool `yaml:"transactions"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn"`
	DatabaseName     string             `yaml:"database_name"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
	ValidFields      []string           `yaml:"valid_fields"`
}

type PostgresConfig struct {
	DSN     string                `yaml:"dsn"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// A missing file is not an error; variables already set are left untouched.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnvOverrides replaces secrets and connection strings with values
// from the environment when they are set.
func ApplyEnvOverrides(cfg *ServiceConfig) {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	mongoURIKey := EnvMongoURI
	if strings.EqualFold(os.Getenv(EnvAppEnv), AppEnvTest) {
		mongoURIKey = EnvMongoURITest
	}
	if v := os.Getenv(mongoURIKey); v != "" {
		cfg.Database.MongoDB.DSN = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		cfg.Database.Postgres.DSN = v
	}
}

// Validate checks the struct tags and the settings required by the selected database type.
func Validate(validator *structValidator.Validate, cfg *ServiceConfig) error {
	if err := validator.Struct(cfg); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	switch cfg.Database.Type {
	case DatabaseTypeMongo:
		if cfg.Database.MongoDB.DSN == "" {
			return fmt.Errorf("validation error: mongodb_config.dsn is required for database type %s", cfg.Database.Type)
		}
		if len(cfg.Database.MongoDB.ValidCollections) == 0 || len(cfg.Database.MongoDB.ValidFields) == 0 {
			return fmt.Errorf("validation error: mongodb_config.valid_collections and valid_fields are required")
		}
	case DatabaseTypePostgres:
		if cfg.Database.Postgres.DSN == "" {
			return fmt.Errorf("validation error: postgres_config.dsn is required for database type %s", cfg.Database.Type)
		}
	}

	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
