package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Collection.Path != "./vector_db" {
		t.Errorf("expected collection path ./vector_db, got %s", cfg.Collection.Path)
	}
	if cfg.Embedding.Model != "all-minilm" {
		t.Errorf("expected embedding model all-minilm, got %s", cfg.Embedding.Model)
	}
	if cfg.Generation.Model != "gemini-pro" {
		t.Errorf("expected generation model gemini-pro, got %s", cfg.Generation.Model)
	}
	if cfg.Generation.CredentialEnv != "GOOGLE_API_KEY" {
		t.Errorf("expected credential env GOOGLE_API_KEY, got %s", cfg.Generation.CredentialEnv)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "citerag.yaml")

	content := `
collection:
  path: /data/fashion_db
generation:
  provider: openai
  model: gpt-4o-mini
server:
  session_ttl: 30m
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Collection.Path != "/data/fashion_db" {
		t.Errorf("expected collection path /data/fashion_db, got %s", cfg.Collection.Path)
	}
	if cfg.Generation.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", cfg.Generation.Provider)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %s", cfg.Server.SessionTTL)
	}
	// untouched sections keep their defaults
	if cfg.Embedding.Dimension != 384 {
		t.Errorf("expected Dimension=384, got %d", cfg.Embedding.Dimension)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".citerag"), 0755); err != nil {
		t.Fatal(err)
	}

	content := `
ingest:
  chunk_tokens: 120
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".citerag", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ingest.ChunkTokens != 120 {
		t.Errorf("expected ChunkTokens=120, got %d", cfg.Ingest.ChunkTokens)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown generation provider", func(c *Config) { c.Generation.Provider = "bard" }, true},
		{"unknown embedding provider", func(c *Config) { c.Embedding.Provider = "huggingface" }, true},
		{"empty collection path", func(c *Config) { c.Collection.Path = "" }, true},
		{"overlap not below chunk size", func(c *Config) { c.Ingest.ChunkOverlap = c.Ingest.ChunkTokens }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("CITERAG_TEST_ENV=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CITERAG_TEST_ENV", "")
	os.Unsetenv("CITERAG_TEST_ENV")

	if err := LoadEnv(tmpDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("CITERAG_TEST_ENV"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}
}

func TestCollectionPaths(t *testing.T) {
	cfg := DefaultConfig()

	dir := cfg.CollectionDir("/home/user/project")
	expected := filepath.Join("/home/user/project", "vector_db")
	if dir != expected {
		t.Errorf("expected %s, got %s", expected, dir)
	}

	cfg.Collection.Path = "/srv/db"
	if got := cfg.CollectionDir("/ignored"); got != "/srv/db" {
		t.Errorf("expected absolute path to be kept, got %s", got)
	}

	if got := CollectionDBPath("/srv/db"); got != filepath.Join("/srv/db", "collection.db") {
		t.Errorf("unexpected db path %s", got)
	}
}
