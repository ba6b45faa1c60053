// Package config provides configuration types and defaults for rulekit.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/tracing"
)

// Config holds all configuration options for rulekit.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Registry  RegistryConfig  `mapstructure:"registry" yaml:"registry"`
	Resources ResourcesConfig `mapstructure:"resources" yaml:"resources"`
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Tracing   tracing.Config  `mapstructure:"tracing" yaml:"tracing"`

	// Flags toggles optional behaviour by name. Unknown names are ignored.
	Flags map[string]bool `mapstructure:"flags" yaml:"flags,omitempty"`
}

// ServerConfig points at the rule engine REST API.
type ServerConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Token   string        `mapstructure:"token" yaml:"token,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RegistryConfig controls descriptor discovery and caching.
type RegistryConfig struct {
	// ComponentTypes are requested from the source. Empty means every node type.
	ComponentTypes []string `mapstructure:"component_types" yaml:"component_types,omitempty"`

	// CacheTTL of zero keeps the component list until explicitly invalidated.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// CatalogFile replaces the server as descriptor source when set.
	CatalogFile  string `mapstructure:"catalog_file" yaml:"catalog_file,omitempty"`
	WatchCatalog bool   `mapstructure:"watch_catalog" yaml:"watch_catalog"`
}

// ResourcesConfig controls UI resource preloading.
type ResourcesConfig struct {
	// DBPath is the SQLite resource store. Empty disables preloading.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// BaseURL resolves relative resource ids. Defaults to server.url.
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// APIConfig configures the HTTP daemon.
type APIConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig configures debug logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Registry: RegistryConfig{
			CacheTTL: 0,
		},
		Resources: ResourcesConfig{
			DBPath: DefaultResourcesDBPath(),
		},
		API: APIConfig{
			Addr: "127.0.0.1:7420",
		},
		Log: LogConfig{
			Level: "debug",
			File:  "debug.log",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultConfigDir returns ~/.config/rulekit or empty string if the home
// directory is unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rulekit")
}

// DefaultResourcesDBPath returns ~/.config/rulekit/resources.db.
func DefaultResourcesDBPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "resources.db")
}

// DefaultTracesFilePath returns ~/.config/rulekit/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// ComponentTypes parses Registry.ComponentTypes, defaulting to every node type.
func (c Config) ComponentTypes() ([]rulenode.ComponentType, error) {
	if len(c.Registry.ComponentTypes) == 0 {
		return rulenode.NodeTypes, nil
	}
	out := make([]rulenode.ComponentType, 0, len(c.Registry.ComponentTypes))
	for _, s := range c.Registry.ComponentTypes {
		t, ok := rulenode.ParseComponentType(s)
		if !ok {
			return nil, fmt.Errorf("registry.component_types: unknown type %q", s)
		}
		out = append(out, t)
	}
	return out, nil
}

// ResourceBaseURL returns Resources.BaseURL or the server URL.
func (c Config) ResourceBaseURL() string {
	if c.Resources.BaseURL != "" {
		return c.Resources.BaseURL
	}
	return c.Server.URL
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	return errors.Join(
		ValidateServer(c.Server, c.Registry.CatalogFile != ""),
		ValidateRegistry(c.Registry),
		ValidateTracing(c.Tracing),
	)
}

// ValidateServer checks server settings. The URL may be empty only when a
// catalog file replaces the server.
func ValidateServer(s ServerConfig, offline bool) error {
	if s.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative, got %v", s.Timeout)
	}
	if s.URL == "" {
		if offline {
			return nil
		}
		return errors.New("server.url is required unless registry.catalog_file is set")
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.url must be an absolute http(s) URL, got %q", s.URL)
	}
	return nil
}

// ValidateRegistry checks registry settings.
func ValidateRegistry(r RegistryConfig) error {
	if r.CacheTTL < 0 {
		return fmt.Errorf("registry.cache_ttl must not be negative, got %v", r.CacheTTL)
	}
	for _, s := range r.ComponentTypes {
		t, ok := rulenode.ParseComponentType(s)
		if !ok || t == rulenode.TypeRuleChain || t == rulenode.TypeUnknown {
			return fmt.Errorf("registry.component_types: %q is not a node type (valid: %s)", s, joinTypes(rulenode.NodeTypes))
		}
	}
	if r.WatchCatalog && r.CatalogFile == "" {
		return errors.New("registry.watch_catalog requires registry.catalog_file")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

func joinTypes(types []rulenode.ComponentType) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# rulekit configuration

# Rule engine REST API
server:
  url: http://localhost:8080
  # token: <jwt>          # sent as X-Authorization: Bearer <token>
  timeout: 30s

# Component registry
registry:
  # component_types: [ENRICHMENT, FILTER, TRANSFORMATION, ACTION, EXTERNAL]
  cache_ttl: 0s           # 0 keeps the list until refreshed
  # catalog_file: ./catalog.yaml   # read descriptors from YAML instead of the server
  watch_catalog: false    # reload when catalog_file changes

# UI resource preloading
resources:
  db_path: ~/.config/rulekit/resources.db   # empty disables preloading
  # base_url: https://cdn.example.com       # defaults to server.url

# HTTP daemon (rulekit serve)
api:
  addr: 127.0.0.1:7420

# Debug logging (enabled with --debug or RULEKIT_DEBUG)
log:
  level: debug            # debug, info, warn, error
  file: debug.log

# Distributed tracing
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/rulekit/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   skip-ui-resources: false   # never preload UI resources
#   warm-on-start: false       # serve builds the component set before listening
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
