package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{
			APIKey: "test-key",
			Model:  "text-embedding-3-small",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}

	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 70000")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing addrs")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.IndexName != "review_vector_idx" {
		t.Errorf("IndexName = %q", cfg.Search.IndexName)
	}
	if cfg.Search.VectorField != "embedding" {
		t.Errorf("VectorField = %q", cfg.Search.VectorField)
	}
	if cfg.Search.CandidatePoolFloor != 100 {
		t.Errorf("CandidatePoolFloor = %d", cfg.Search.CandidatePoolFloor)
	}
	if cfg.Search.RowWorkers != 4 {
		t.Errorf("RowWorkers = %d", cfg.Search.RowWorkers)
	}
	if len(cfg.Search.ProjectedFields) != 5 {
		t.Errorf("ProjectedFields = %v", cfg.Search.ProjectedFields)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("ReadinessTimeout = %d", cfg.Database.ReadinessTimeout)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Search.IndexName = "custom_idx"
	cfg.Search.CandidatePoolFloor = 50
	cfg.ApplyDefaults()

	if cfg.Search.IndexName != "custom_idx" {
		t.Errorf("IndexName = %q", cfg.Search.IndexName)
	}
	if cfg.Search.CandidatePoolFloor != 50 {
		t.Errorf("CandidatePoolFloor = %d", cfg.Search.CandidatePoolFloor)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REVIEWDEX_TEST_KEY", "secret")

	out := expandEnvVars([]byte("api_key: ${REVIEWDEX_TEST_KEY}\nother: ${REVIEWDEX_TEST_UNSET}"))
	want := "api_key: secret\nother: "
	if string(out) != want {
		t.Errorf("expandEnvVars = %q, want %q", out, want)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv() = %q, want local", env)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if env := GetEnv(); env != "prod" {
		t.Errorf("GetEnv() = %q, want prod", env)
	}
}
