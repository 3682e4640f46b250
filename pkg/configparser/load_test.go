package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Safety struct {
		Cadence   time.Duration `env:"TEST_SAFETY_CHECK_CADENCE" default:"5m"`
		Threshold int           `env:"TEST_SAFETY_MISS_THRESHOLD" default:"5"`
	}
	Broker struct {
		Enabled bool   `env:"TEST_BROKER_ENABLED" default:"false"`
		Host    string `env:"TEST_BROKER_HOST" default:"localhost"`
	}
	Fare float64 `env:"TEST_RIDE_BASE_FARE" default:"200"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParse_Defaults(t *testing.T) {
	var cfg testConfig
	if err := Parse(&cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Safety.Cadence != 5*time.Minute {
		t.Fatalf("cadence: got %v", cfg.Safety.Cadence)
	}
	if cfg.Safety.Threshold != 5 {
		t.Fatalf("threshold: got %d", cfg.Safety.Threshold)
	}
	if cfg.Broker.Host != "localhost" || cfg.Broker.Enabled {
		t.Fatalf("broker: got %+v", cfg.Broker)
	}
	if cfg.Fare != 200 {
		t.Fatalf("fare: got %v", cfg.Fare)
	}
}

func TestLoadYamlFile_FlattensAndSubstitutes(t *testing.T) {
	t.Setenv("TEST_BROKER_HOST_SOURCE", "rabbit.internal")

	path := writeFile(t, `
test:
  safety:
    check_cadence: 90s
    miss_threshold: 3
  broker:
    enabled: true
    host: ${TEST_BROKER_HOST_SOURCE:-localhost}
`)

	// cleanup variables exported by the loader
	for _, k := range []string{"TEST_SAFETY_CHECK_CADENCE", "TEST_SAFETY_MISS_THRESHOLD", "TEST_BROKER_ENABLED", "TEST_BROKER_HOST"} {
		t.Setenv(k, "")
	}

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	var cfg testConfig
	if err := Parse(&cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Safety.Cadence != 90*time.Second {
		t.Fatalf("cadence: got %v", cfg.Safety.Cadence)
	}
	if cfg.Safety.Threshold != 3 {
		t.Fatalf("threshold: got %d", cfg.Safety.Threshold)
	}
	if !cfg.Broker.Enabled || cfg.Broker.Host != "rabbit.internal" {
		t.Fatalf("broker: got %+v", cfg.Broker)
	}
}

func TestLoadYamlFile_DoesNotOverrideEnv(t *testing.T) {
	t.Setenv("TEST_RIDE_BASE_FARE", "350")
	path := writeFile(t, "test:\n  ride:\n    base_fare: 100\n")

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("TEST_RIDE_BASE_FARE"); got != "350" {
		t.Fatalf("env must win over yaml, got %s", got)
	}
}

func TestLoadYamlFile_NoPath(t *testing.T) {
	if err := LoadYamlFile(""); err != ErrNoFilePath {
		t.Fatalf("expected ErrNoFilePath, got %v", err)
	}
}

func TestParse_RejectsNonPointer(t *testing.T) {
	if err := Parse(testConfig{}); err != ErrNotStructPointer {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}

func TestParse_InvalidValue(t *testing.T) {
	t.Setenv("TEST_SAFETY_MISS_THRESHOLD", "many")
	var cfg testConfig
	if err := Parse(&cfg); err == nil {
		t.Fatalf("expected error for non-numeric threshold")
	}
}
