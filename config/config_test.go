package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

var configKeys = []string{
	"SPLIT_TRAIN", "SPLIT_VALIDATION", "SPLIT_TEST", "FORM_WINDOW", "CIRCUIT_LOOKBACK_YEARS",
	"IMPUTATION_POLICY", "IMPUTATION_SENTINEL", "PACE_SESSIONS", "TRACK_TYPES_FILE",
	"TRACK_TYPE_DEFAULT", "PIPELINE_WORKERS", "OUTPUT_DIR", "REBUILD_INTERVAL_SEC",
	"STORE_BACKEND", "SQLITE_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_SSLMODE", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "SERVER_PORT",
	"METRICS_ADDR", "MQTT_URL", "MQTT_TOPIC", "CORS_ALLOWED_ORIGINS",
}

func clearEnv() {
	for _, key := range configKeys {
		os.Unsetenv(key)
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "f1features",
		Password: "secret",
		Name:     "f1features",
		SSLMode:  "disable",
	}
	dsn := db.GetDSN()

	expected := "host=localhost port=5432 user=f1features password=secret dbname=f1features sslmode=disable"
	if dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}

func TestGetURL(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "admin",
		Password: "pw",
		Name:     "f1",
		SSLMode:  "require",
	}
	url := db.GetURL()

	if !strings.HasPrefix(url, "postgres://admin:pw@db.example.com:5433/f1") {
		t.Errorf("GetURL() = %q", url)
	}
	if !strings.HasSuffix(url, "sslmode=require") {
		t.Errorf("URL missing sslmode, got: %s", url)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("TEST_CONFIG_VAR")
	if got := getEnv("TEST_CONFIG_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want %q", got, "default")
	}

	os.Setenv("TEST_CONFIG_VAR", "custom")
	defer os.Unsetenv("TEST_CONFIG_VAR")
	if got := getEnv("TEST_CONFIG_VAR", "default"); got != "custom" {
		t.Errorf("getEnv() = %q, want %q", got, "custom")
	}
}

func TestGetIntEnv(t *testing.T) {
	t.Run("fallback when unset", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		got, err := getIntEnv("TEST_INT_VAR", 8080)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 8080 {
			t.Errorf("getIntEnv() = %d, want %d", got, 8080)
		}
	})

	t.Run("parses valid int", func(t *testing.T) {
		os.Setenv("TEST_INT_VAR", "9090")
		defer os.Unsetenv("TEST_INT_VAR")
		got, err := getIntEnv("TEST_INT_VAR", 8080)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 9090 {
			t.Errorf("getIntEnv() = %d, want %d", got, 9090)
		}
	})

	t.Run("error on invalid int", func(t *testing.T) {
		os.Setenv("TEST_INT_VAR", "not_int")
		defer os.Unsetenv("TEST_INT_VAR")
		_, err := getIntEnv("TEST_INT_VAR", 8080)
		if err == nil {
			t.Error("expected error for invalid int value")
		}
	})
}

func TestGetListEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset", "", []string{"FP3"}},
		{"single", "FP2", []string{"FP2"}},
		{"ordered list", "FP3, FP2 ,FP1", []string{"FP3", "FP2", "FP1"}},
		{"only separators", " , ,", []string{"FP3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_LIST_VAR", tt.value)
			defer os.Unsetenv("TEST_LIST_VAR")
			got := getListEnv("TEST_LIST_VAR", []string{"FP3"})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("getListEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	p := cfg.Pipeline
	if p.SplitTrain != "2019-2022" || p.SplitValidation != "2023" || p.SplitTest != "2024" {
		t.Errorf("splits = %q/%q/%q", p.SplitTrain, p.SplitValidation, p.SplitTest)
	}
	if p.FormWindow != 5 {
		t.Errorf("Pipeline.FormWindow = %d, want 5", p.FormWindow)
	}
	if p.LookbackYears != 3 {
		t.Errorf("Pipeline.LookbackYears = %d, want 3", p.LookbackYears)
	}
	if p.ImputationPolicy != "sentinel" || p.ImputationSentinel != -1 {
		t.Errorf("imputation = %q/%v, want sentinel/-1", p.ImputationPolicy, p.ImputationSentinel)
	}
	if !reflect.DeepEqual(p.PaceSessions, []string{"FP3"}) {
		t.Errorf("Pipeline.PaceSessions = %v, want [FP3]", p.PaceSessions)
	}
	if p.RebuildIntervalSec != 0 {
		t.Errorf("Pipeline.RebuildIntervalSec = %d, want 0", p.RebuildIntervalSec)
	}
	if cfg.Store.Backend != "postgres" {
		t.Errorf("Store.Backend = %q, want postgres", cfg.Store.Backend)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want 6379", cfg.Redis.Port)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.CORS.AllowedOrigins != "*" {
		t.Errorf("CORS.AllowedOrigins = %q, want %q", cfg.CORS.AllowedOrigins, "*")
	}
}

func TestLoadConfigCustom(t *testing.T) {
	clearEnv()
	os.Setenv("SPLIT_TRAIN", "2018-2021")
	os.Setenv("IMPUTATION_POLICY", "train_mean")
	os.Setenv("IMPUTATION_SENTINEL", "-99.5")
	os.Setenv("PACE_SESSIONS", "FP3,FP2")
	os.Setenv("STORE_BACKEND", "sqlite")
	os.Setenv("DB_PORT", "5433")
	defer clearEnv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Pipeline.SplitTrain != "2018-2021" {
		t.Errorf("Pipeline.SplitTrain = %q", cfg.Pipeline.SplitTrain)
	}
	if cfg.Pipeline.ImputationPolicy != "train_mean" {
		t.Errorf("Pipeline.ImputationPolicy = %q", cfg.Pipeline.ImputationPolicy)
	}
	if cfg.Pipeline.ImputationSentinel != -99.5 {
		t.Errorf("Pipeline.ImputationSentinel = %v, want -99.5", cfg.Pipeline.ImputationSentinel)
	}
	if !reflect.DeepEqual(cfg.Pipeline.PaceSessions, []string{"FP3", "FP2"}) {
		t.Errorf("Pipeline.PaceSessions = %v", cfg.Pipeline.PaceSessions)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("Database.Port = %d, want 5433", cfg.Database.Port)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SERVER_PORT", "invalid"},
		{"FORM_WINDOW", "five"},
		{"IMPUTATION_SENTINEL", "minus one"},
		{"STORE_BACKEND", "mysql"},
		{"REDIS_DB", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv()
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			_, err := LoadConfig()
			if err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
