// Package config provides the YAML configuration model shared by the API
// server and the ingestion CLI. The decoded struct is constructed once at
// startup and passed by injection; no package keeps ambient global state.
//
// Secrets and deploy-specific values can be overridden through the
// environment (12-factor style): FEEDBACKOS_DSN and FEEDBACKOS_ADDR take
// precedence over the file when set.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dotunbey/feedback-os/internal/alias"
)

// Config is the top-level configuration document.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Ingest  Ingest  `yaml:"ingest"`
	Metrics Metrics `yaml:"metrics"`
}

// Server configures the HTTP API.
type Server struct {
	Addr                string `yaml:"addr"`         // e.g. ":8080"
	CORSOrigin          string `yaml:"cors_origin"`  // "*" for development
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// Storage selects and configures the store backend.
type Storage struct {
	Kind            string `yaml:"kind"` // "postgres"
	DSN             string `yaml:"dsn"`
	AutoCreateTable bool   `yaml:"auto_create_table"`
}

// Ingest configures ingestion runs.
type Ingest struct {
	// Mode is the store-level conflict policy: "insert" or "upsert".
	// Explicit, never inferred.
	Mode string `yaml:"mode"`

	// ChunkSize is records per store write; 0 means the default (500).
	ChunkSize int `yaml:"chunk_size"`

	// Workers bounds concurrent chunk dispatch; 0 means sequential.
	Workers int `yaml:"workers"`

	// Delimiter is the CSV field delimiter; empty means ",".
	Delimiter string `yaml:"delimiter"`

	// Aliases optionally replaces the built-in header alias table. Order
	// defines precedence.
	Aliases []alias.Entry `yaml:"aliases"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend    string `yaml:"backend"` // "pushgateway" or "none"
	GatewayURL string `yaml:"gateway_url"`
	Job        string `yaml:"job"`
}

// Defaults applied by Load when the file leaves fields unset.
const (
	DefaultAddr      = ":8080"
	DefaultKind      = "postgres"
	DefaultMode      = "insert"
	DefaultChunkSize = 500
)

// Load reads and decodes the config file, applies defaults, and applies
// environment overrides.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.applyDefaults()
	c.applyEnv()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = DefaultKind
	}
	if c.Ingest.Mode == "" {
		c.Ingest.Mode = DefaultMode
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = DefaultChunkSize
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FEEDBACKOS_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("FEEDBACKOS_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// AliasTable builds the resolver table from config, falling back to the
// built-in defaults when none is configured.
func (c Config) AliasTable() *alias.Table {
	if len(c.Ingest.Aliases) == 0 {
		return alias.Default()
	}
	return alias.New(c.Ingest.Aliases)
}
