package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flarebyte/baldrick-gitvault/internal/paths"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// StorageFS archives to one JSON file per entity under the home dir.
	StorageFS = "fs"
	// StoragePostgres archives into dedicated postgres tables.
	StoragePostgres = "postgres"
)

type RemoteConfig struct {
	BaseURL string `yaml:"base_url"` // API root, default https://api.github.com
	Owner   string `yaml:"owner"`
	Repo    string `yaml:"repo"`
	// TokenSecret names the vault secret holding the API token.
	// The GITVAULT_TOKEN environment variable takes precedence.
	TokenSecret string `yaml:"token_secret"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // fs or postgres
	Dir     string `yaml:"dir"`     // fs archive dir, default <home>/archives

	Postgres PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Schema   string `yaml:"schema"` // default "gitvault"
}

type VaultConfig struct {
	Backend string `yaml:"backend"` // keychain (darwin) only for now
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // default 127.0.0.1:53061
}

type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Vault   VaultConfig   `yaml:"vault"`
	Server  ServerConfig  `yaml:"server"`
	// StrictDeps makes an explicitly enabled entity with an explicitly
	// disabled dependency a fatal error instead of a cascading disable.
	StrictDeps bool `yaml:"strict_deps"`
	// ConflictPolicy is the default restore conflict policy.
	ConflictPolicy string `yaml:"conflict_policy"`
}

func defaults() Config {
	return Config{
		Remote: RemoteConfig{BaseURL: DefaultBaseURL, TokenSecret: "api-token"},
		Storage: StorageConfig{
			Backend:  StorageFS,
			Dir:      paths.ArchivesDir(),
			Postgres: PostgresConfig{Host: "127.0.0.1", Port: 5432, SSLMode: "disable", Schema: "gitvault"},
		},
		Vault:          VaultConfig{Backend: "keychain"},
		Server:         ServerConfig{Addr: "127.0.0.1:53061"},
		ConflictPolicy: "fail-if-existing",
	}
}

// Path returns the expected path to the config.yaml file.
func Path() string {
	return filepath.Join(paths.Home(), "config.yaml")
}

// Load reads configuration from config.yaml if it exists.
// Missing file is not an error; defaults are returned.
func Load() (Config, error) {
	cfg := defaults()
	p := Path()
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	merge(&cfg, fileCfg)
	return cfg, nil
}

// merge overrides defaults with provided values if non-zero.
func merge(cfg *Config, f Config) {
	if f.Remote.BaseURL != "" {
		cfg.Remote.BaseURL = f.Remote.BaseURL
	}
	if f.Remote.Owner != "" {
		cfg.Remote.Owner = f.Remote.Owner
	}
	if f.Remote.Repo != "" {
		cfg.Remote.Repo = f.Remote.Repo
	}
	if f.Remote.TokenSecret != "" {
		cfg.Remote.TokenSecret = f.Remote.TokenSecret
	}
	if f.Storage.Backend != "" {
		cfg.Storage.Backend = f.Storage.Backend
	}
	if f.Storage.Dir != "" {
		cfg.Storage.Dir = f.Storage.Dir
	}
	if f.Storage.Postgres.Host != "" {
		cfg.Storage.Postgres.Host = f.Storage.Postgres.Host
	}
	if f.Storage.Postgres.Port != 0 {
		cfg.Storage.Postgres.Port = f.Storage.Postgres.Port
	}
	if f.Storage.Postgres.User != "" {
		cfg.Storage.Postgres.User = f.Storage.Postgres.User
	}
	if f.Storage.Postgres.Password != "" {
		cfg.Storage.Postgres.Password = f.Storage.Postgres.Password
	}
	if f.Storage.Postgres.DBName != "" {
		cfg.Storage.Postgres.DBName = f.Storage.Postgres.DBName
	}
	if f.Storage.Postgres.SSLMode != "" {
		cfg.Storage.Postgres.SSLMode = f.Storage.Postgres.SSLMode
	}
	if f.Storage.Postgres.Schema != "" {
		cfg.Storage.Postgres.Schema = f.Storage.Postgres.Schema
	}
	if f.Vault.Backend != "" {
		cfg.Vault.Backend = f.Vault.Backend
	}
	if f.Server.Addr != "" {
		cfg.Server.Addr = f.Server.Addr
	}
	if f.StrictDeps {
		cfg.StrictDeps = true
	}
	if f.ConflictPolicy != "" {
		cfg.ConflictPolicy = f.ConflictPolicy
	}
}
