package config

import (
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	return &Config{
		Env:   "development",
		Store: StoreConfig{Backend: BackendMemory},
		Surreal: SurrealConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "gamegraph",
			Database:  "main",
		},
		Badger: BadgerConfig{Path: "./data/graph"},
		Reconcile: ReconcileConfig{
			AckTimeout:     650 * time.Millisecond,
			VerifyDelay:    800 * time.Millisecond,
			ReadRetryDelay: 250 * time.Millisecond,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid GRAPH_ENV")
	}
	if !strings.Contains(err.Error(), "GRAPH_ENV") {
		t.Errorf("expected error to mention GRAPH_ENV, got: %v", err)
	}
}

func TestConfig_Validate_UnknownBackend(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Store.Backend = "etcd"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for unknown STORE_BACKEND")
	}
	if !strings.Contains(err.Error(), "STORE_BACKEND") {
		t.Errorf("expected error to mention STORE_BACKEND, got: %v", err)
	}
}

func TestConfig_Validate_MemoryBackendInProduction(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Env = "production"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for memory backend in production")
	}
	if !strings.Contains(err.Error(), "production") {
		t.Errorf("expected error to mention production, got: %v", err)
	}
}

func TestConfig_Validate_BadgerNeedsPath(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Store.Backend = BackendBadger
	cfg.Badger.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing BADGER_PATH")
	}

	cfg.Badger.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory badger needs no path, got: %v", err)
	}
}

func TestConfig_Validate_SurrealMissingFields(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Store.Backend = BackendSurreal
	cfg.Surreal.Namespace = ""
	cfg.Surreal.Database = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing SurrealDB fields")
	}
	for _, want := range []string{"DB_NAMESPACE", "DB_DATABASE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestConfig_Validate_ReconcileTimings(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Reconcile.AckTimeout = 0
	cfg.Reconcile.VerifyDelay = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-positive timings")
	}
	for _, want := range []string{"WRITE_ACK_TIMEOUT", "WRITE_VERIFY_DELAY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("expected default backend %q, got %q", BackendMemory, cfg.Store.Backend)
	}
	if cfg.Badger.SyncWrites {
		t.Error("expected BADGER_SYNC_WRITES to default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoad_BadgerSyncWrites(t *testing.T) {
	t.Setenv("BADGER_SYNC_WRITES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Badger.SyncWrites {
		t.Error("expected BADGER_SYNC_WRITES=true to enable sync writes")
	}
}

func TestSurrealConfig_URL(t *testing.T) {
	s := SurrealConfig{Host: "db.internal", Port: "8000"}
	if got := s.URL(); got != "ws://db.internal:8000" {
		t.Errorf("unexpected URL: %s", got)
	}
}
