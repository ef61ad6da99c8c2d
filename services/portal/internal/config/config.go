package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"contesthub/pkg/store"
)

// ConfigPath is the default location of the portal configuration.
const ConfigPath = "config.yaml"

// Export sink kinds.
const (
	ExportsDir   = "dir"
	ExportsMinio = "minio"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	LogLevel          string `yaml:"logLevel"`
	StorageDriver     string `yaml:"storageDriver"`
	DataDir           string `yaml:"dataDir"`
	RedisAddr         string `yaml:"redisAddr"`
	RedisPassword     string `yaml:"redisPassword"`
	RedisDB           int    `yaml:"redisDB"`
	RedisPrefix       string `yaml:"redisPrefix"`
	DatabaseURL       string `yaml:"databaseURL"`
	MongoURI          string `yaml:"mongoURI"`
	MongoDatabase     string `yaml:"mongoDatabase"`
	MongoCollection   string `yaml:"mongoCollection"`
	ExportSink        string `yaml:"exportSink"`
	ExportDir         string `yaml:"exportDir"`
	MinioEndpoint     string `yaml:"minioEndpoint"`
	MinioAccessKey    string `yaml:"minioAccessKey"`
	MinioSecretKey    string `yaml:"minioSecretKey"`
	MinioBucket       string `yaml:"minioBucket"`
	MinioPrefix       string `yaml:"minioPrefix"`
	MinioUseSSL       bool   `yaml:"minioUseSSL"`
	LinkExpirySeconds int    `yaml:"linkExpirySeconds"`
	StrictEligibility bool   `yaml:"strictEligibility"`
}

// Defaults is the configuration used when no config file exists: a local
// profile under ./data and exports under ./exports.
func Defaults() FileConfig {
	return FileConfig{
		LogLevel:          "info",
		StorageDriver:     store.DriverFile,
		DataDir:           "data",
		ExportSink:        ExportsDir,
		ExportDir:         "exports",
		LinkExpirySeconds: 900,
	}
}

// Load reads config from path (defaults to config.yaml). A missing file is not
// an error; environment variables, including those from an optional .env
// file, override file values.
func Load(path string) (FileConfig, error) {
	cfg := Defaults()
	if path == "" {
		path = ConfigPath
	}
	_ = godotenv.Load()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) {
	if v := os.Getenv("PORTAL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PORTAL_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("PORTAL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("PORTAL_EXPORT_SINK"); v != "" {
		cfg.ExportSink = v
	}
	if v := os.Getenv("PORTAL_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MinioUseSSL = b
		}
	}
	if v := os.Getenv("PORTAL_STRICT_ELIGIBILITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StrictEligibility = b
		}
	}
}

// StoreOptions maps the storage settings onto store.Open options.
func (c FileConfig) StoreOptions() store.Options {
	return store.Options{
		Driver:          c.StorageDriver,
		Dir:             c.DataDir,
		RedisAddr:       c.RedisAddr,
		RedisPassword:   c.RedisPassword,
		RedisDB:         c.RedisDB,
		RedisPrefix:     c.RedisPrefix,
		DatabaseURL:     c.DatabaseURL,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
	}
}

func (c FileConfig) LinkExpiry() time.Duration {
	return time.Duration(c.LinkExpirySeconds) * time.Second
}

func validateConfig(cfg FileConfig) error {
	switch cfg.StorageDriver {
	case store.DriverMemory:
	case store.DriverFile:
		if strings.TrimSpace(cfg.DataDir) == "" {
			return errors.New("config: dataDir is required for the file driver (set in config.yaml or PORTAL_DATA_DIR)")
		}
	case store.DriverRedis:
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for the redis driver (set in config.yaml or REDIS_ADDR)")
		}
	case store.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required for the postgres driver (set in config.yaml or DATABASE_URL)")
		}
	case store.DriverMongo:
		if cfg.MongoURI == "" {
			return errors.New("config: mongoURI is required for the mongo driver (set in config.yaml or MONGO_URI)")
		}
	default:
		return fmt.Errorf("config: unknown storageDriver %q", cfg.StorageDriver)
	}
	switch cfg.ExportSink {
	case ExportsDir:
		if strings.TrimSpace(cfg.ExportDir) == "" {
			return errors.New("config: exportDir is required (set in config.yaml or PORTAL_EXPORT_DIR)")
		}
	case ExportsMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
			return errors.New("config: minioEndpoint and minioBucket are required for the minio export sink")
		}
	default:
		return fmt.Errorf("config: unknown exportSink %q", cfg.ExportSink)
	}
	if cfg.LinkExpirySeconds < 0 {
		return errors.New("config: linkExpirySeconds must be >= 0")
	}
	return nil
}
