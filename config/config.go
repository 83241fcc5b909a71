package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CollectionFile is the database file kept inside the collection directory.
const CollectionFile = "collection.db"

// Config holds all configuration for citerag.
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CollectionConfig locates the persisted vector collection.
type CollectionConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider" validate:"oneof=ollama openai hash"`
	Model     string        `yaml:"model" validate:"required"`
	BaseURL   string        `yaml:"base_url"`
	APIKeyEnv string        `yaml:"api_key_env"` // Environment variable for API key
	Dimension int           `yaml:"dimension" validate:"gte=0"`
	BatchSize int           `yaml:"batch_size" validate:"gte=0"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// GenerationConfig holds the hosted model settings.
type GenerationConfig struct {
	Provider      string `yaml:"provider" validate:"oneof=gemini openai"`
	Model         string `yaml:"model" validate:"required"`
	BaseURL       string `yaml:"base_url"`
	CredentialEnv string `yaml:"credential_env" validate:"required"`
}

// IngestConfig holds collection building configuration.
type IngestConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	ChunkTokens  int      `yaml:"chunk_tokens" validate:"gt=0"`
	ChunkOverlap int      `yaml:"chunk_overlap" validate:"gte=0,ltfield=ChunkTokens"`
}

// ServerConfig holds web UI configuration.
type ServerConfig struct {
	Addr       string        `yaml:"addr" validate:"required"`
	Title      string        `yaml:"title"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Collection: CollectionConfig{
			Path: "./vector_db",
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 64,
			CacheTTL:  10 * time.Minute,
		},
		Generation: GenerationConfig{
			Provider:      "gemini",
			Model:         "gemini-pro",
			CredentialEnv: "GOOGLE_API_KEY",
		},
		Ingest: IngestConfig{
			Includes:     []string{"**/*.pdf", "**/*.txt", "**/*.md"},
			Excludes:     []string{"**/.git/**", "**/node_modules/**", "**/vector_db/**"},
			ChunkTokens:  200,
			ChunkOverlap: 20,
		},
		Server: ServerConfig{
			Addr:       ":8501",
			Title:      "Fashion AI RAG with Gemini (Citations Enabled)",
			SessionTTL: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for citerag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "citerag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".citerag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// LoadEnv reads a .env file from dir into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = validator.New()

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CollectionDir resolves the collection directory against root.
func (c *Config) CollectionDir(root string) string {
	if filepath.IsAbs(c.Collection.Path) {
		return c.Collection.Path
	}
	return filepath.Join(root, c.Collection.Path)
}

// CollectionDBPath returns the path to the collection database inside dir.
func CollectionDBPath(dir string) string {
	return filepath.Join(dir, CollectionFile)
}
