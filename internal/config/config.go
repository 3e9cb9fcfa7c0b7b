package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	GinMode     string `yaml:"ginMode"`
	Port        string `yaml:"port"`
	TZ          string `yaml:"tz"`
	LogLevel    string `yaml:"logLevel"`
	BaseURL     string `yaml:"baseURL"`
	StoreDriver string `yaml:"storeDriver"`

	DBHost    string `yaml:"dbHost"`
	DBPort    string `yaml:"dbPort"`
	DBUser    string `yaml:"dbUser"`
	DBPass    string `yaml:"dbPass"`
	DBName    string `yaml:"dbName"`
	DBSSLMode string `yaml:"dbSSLMode"`

	SQLitePath string `yaml:"sqlitePath"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
}

func defaults() *Config {
	return &Config{
		GinMode:     "debug",
		Port:        "8080",
		TZ:          "UTC",
		LogLevel:    "info",
		StoreDriver: DriverPostgres,
		DBHost:      "localhost",
		DBPort:      "5432",
		DBUser:      "postgres",
		DBName:      "postgres",
		SQLitePath:  "catalog.db",
		RedisAddr:   "localhost:6379",
	}
}

// findRepoRoot walks up from the working directory to the first directory
// holding .env.dev.
func findRepoRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, ".env.dev")
		if _, err := os.Stat(candidate); err == nil {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func loadDotEnv() {
	filename := ".env.dev"
	root, ok := findRepoRoot()
	if !ok {
		slog.Debug("no env file found", "file", filename)
		return
	}

	envPath := filepath.Join(root, filename)
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load env file", "path", envPath, "error", err)
		return
	}
	slog.Info("loaded env file", "path", envPath)
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and the environment, later sources winning. In debug mode
// .env.dev is loaded into the environment first.
func Load() (*Config, error) {
	if getenv("GIN_MODE", "debug") == "debug" {
		loadDotEnv()
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	for key, dst := range map[string]*string{
		"GIN_MODE":       &cfg.GinMode,
		"PORT":           &cfg.Port,
		"TZ":             &cfg.TZ,
		"LOG_LEVEL":      &cfg.LogLevel,
		"BASE_URL":       &cfg.BaseURL,
		"STORE_DRIVER":   &cfg.StoreDriver,
		"DB_HOST":        &cfg.DBHost,
		"DB_PORT":        &cfg.DBPort,
		"DB_USER":        &cfg.DBUser,
		"DB_PASS":        &cfg.DBPass,
		"DB_NAME":        &cfg.DBName,
		"DB_SSLMODE":     &cfg.DBSSLMode,
		"SQLITE_PATH":    &cfg.SQLitePath,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"REDIS_PASSWORD": &cfg.RedisPassword,
	} {
		*dst = getenv(key, *dst)
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: REDIS_DB must be an integer: %w", err)
		}
		cfg.RedisDB = n
	}

	return nil
}

func validate(cfg *Config) error {
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			return fmt.Errorf("config: DB_HOST and DB_NAME are required for the %s driver", cfg.StoreDriver)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return fmt.Errorf("config: SQLITE_PATH is required for the %s driver", cfg.StoreDriver)
		}
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("config: REDIS_ADDR is required for the %s driver", cfg.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.Port == "" {
		return fmt.Errorf("config: PORT is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPass,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.TZ,
	)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
