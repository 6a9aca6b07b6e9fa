// Package config loads and saves the cofre.yaml configuration: which
// storage backend to use, where data lives, and the owner identity shown
// in reports.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cofre-dev/cofre/internal/storage"
)

// FileName is the config file looked up in the data directory.
const FileName = "cofre.yaml"

// Config represents the top-level cofre.yaml configuration.
type Config struct {
	Owner   OwnerConfig   `yaml:"owner"`
	Storage StorageConfig `yaml:"storage"`
	Import  ImportConfig  `yaml:"import"`
}

// OwnerConfig identifies the ledger owner and the shared-expense
// counterparty named in settlement reports.
type OwnerConfig struct {
	Name         string `yaml:"name"`
	Counterparty string `yaml:"counterparty"`
}

// StorageConfig selects the persistence backend. Backend is "sqlite" or
// "jsonfile"; each backend resolves its file under DataDir.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`  // sqlite file name
	JSONFile string `yaml:"json_file"` // jsonfile backend file name
}

// ImportConfig controls statement import behavior.
type ImportConfig struct {
	WriteCleanCSV bool `yaml:"write_clean_csv"`
}

// DatabasePath resolves the sqlite file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.Database)
}

// JSONFilePath resolves the jsonfile backend location.
func (c *Config) JSONFilePath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.JSONFile)
}

// Validate checks the backend selection.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendJSONFile:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
}

// Load reads a cofre.yaml file from disk. Environment variables COFRE_BACKEND
// and COFRE_DATA_DIR override the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(ownerName, dataDir string) *Config {
	return &Config{
		Owner: OwnerConfig{
			Name:         ownerName,
			Counterparty: "Alzi",
		},
		Storage: StorageConfig{
			Backend:  storage.BackendSQLite,
			DataDir:  dataDir,
			Database: "cofre.db",
			JSONFile: "cofre.json",
		},
		Import: ImportConfig{
			WriteCleanCSV: true,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COFRE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("COFRE_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
}
