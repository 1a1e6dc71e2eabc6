package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Pipeline PipelineConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Metrics  MetricsConfig
	MQTT     MQTTConfig
	CORS     CORSConfig
}

type PipelineConfig struct {
	SplitTrain         string
	SplitValidation    string
	SplitTest          string
	FormWindow         int
	LookbackYears      int
	ImputationPolicy   string
	ImputationSentinel float64
	PaceSessions       []string
	TrackTypesFile     string
	TrackTypeDefault   string
	Workers            int
	OutputDir          string
	RebuildIntervalSec int
}

type StoreConfig struct {
	Backend    string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// GetURL is the pgx connection string for the same database.
func (d DatabaseConfig) GetURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ServerConfig struct {
	Port int
}

type MetricsConfig struct {
	Addr string
}

type MQTTConfig struct {
	URL   string
	Topic string
}

type CORSConfig struct {
	AllowedOrigins string
}

func LoadConfig() (*Config, error) {
	formWindow, err := getIntEnv("FORM_WINDOW", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid FORM_WINDOW: %w", err)
	}
	lookback, err := getIntEnv("CIRCUIT_LOOKBACK_YEARS", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid CIRCUIT_LOOKBACK_YEARS: %w", err)
	}
	sentinel, err := getFloatEnv("IMPUTATION_SENTINEL", -1)
	if err != nil {
		return nil, fmt.Errorf("invalid IMPUTATION_SENTINEL: %w", err)
	}
	workers, err := getIntEnv("PIPELINE_WORKERS", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_WORKERS: %w", err)
	}
	interval, err := getIntEnv("REBUILD_INTERVAL_SEC", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REBUILD_INTERVAL_SEC: %w", err)
	}

	backend := getEnv("STORE_BACKEND", "postgres")
	if backend != "postgres" && backend != "sqlite" {
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q (want postgres or sqlite)", backend)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	cfg := &Config{
		Pipeline: PipelineConfig{
			SplitTrain:         getEnv("SPLIT_TRAIN", "2019-2022"),
			SplitValidation:    getEnv("SPLIT_VALIDATION", "2023"),
			SplitTest:          getEnv("SPLIT_TEST", "2024"),
			FormWindow:         formWindow,
			LookbackYears:      lookback,
			ImputationPolicy:   getEnv("IMPUTATION_POLICY", "sentinel"),
			ImputationSentinel: sentinel,
			PaceSessions:       getListEnv("PACE_SESSIONS", []string{"FP3"}),
			TrackTypesFile:     getEnv("TRACK_TYPES_FILE", ""),
			TrackTypeDefault:   getEnv("TRACK_TYPE_DEFAULT", "permanent"),
			Workers:            workers,
			OutputDir:          getEnv("OUTPUT_DIR", "./out"),
			RebuildIntervalSec: interval,
		},
		Store: StoreConfig{
			Backend:    backend,
			SQLitePath: getEnv("SQLITE_PATH", "~/.f1features/sessions.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "f1features"),
			Password: getEnv("DB_PASSWORD", "f1features_dev_password"),
			Name:     getEnv("DB_NAME", "f1features"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Port: serverPort,
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9090"),
		},
		MQTT: MQTTConfig{
			URL:   getEnv("MQTT_URL", "tcp://localhost:1883"),
			Topic: getEnv("MQTT_TOPIC", "f1features/sessions/+"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

// getListEnv splits a comma-separated value, dropping empty items.
func getListEnv(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
