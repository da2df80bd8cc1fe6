// Package config loads, validates and persists zerodesign settings, and owns
// the style card store.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/zerodesign/internal/advisor"
	"github.com/rshade/zerodesign/internal/cache"
	"github.com/rshade/zerodesign/internal/history"
	"github.com/rshade/zerodesign/internal/refdata"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

const (
	configFileName  = "config.yaml"
	cardsFileName   = "cards.json"
	historyFileName = "history.db"
	cacheDirName    = "cache"

	defaultPrecision      = 1
	defaultTimeoutSeconds = 10
)

// Config is the full application configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output" json:"output"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	RefData   RefDataConfig   `yaml:"refdata" json:"refdata"`
	Benchmark BenchmarkConfig `yaml:"benchmark" json:"benchmark"`
	Advisor   AdvisorConfig   `yaml:"advisor" json:"advisor"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`

	configPath string
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format" validate:"oneof=table json ndjson"`
	Precision     int    `yaml:"precision" json:"precision" validate:"gte=0,lte=6"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=console json"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// RefDataConfig names the reference sources and how they are fetched.
type RefDataConfig struct {
	FiberSource     string `yaml:"fiber_source,omitempty" json:"fiber_source,omitempty"`
	ProcessSource   string `yaml:"process_source,omitempty" json:"process_source,omitempty"`
	ModelsSource    string `yaml:"models_source,omitempty" json:"models_source,omitempty"`
	CacheEnabled    bool   `yaml:"cache_enabled" json:"cache_enabled"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds" validate:"gte=0"`
	CacheDir        string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gte=0"`
}

// BenchmarkConfig overrides the built-in benchmark dataset.
type BenchmarkConfig struct {
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// AdvisorConfig configures the remote suggestion service.
type AdvisorConfig struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	Endpoint       string  `yaml:"endpoint,omitempty" json:"endpoint,omitempty" validate:"omitempty,url"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gte=0"`
	RatePerSecond  float64 `yaml:"rate_per_second" json:"rate_per_second" validate:"gte=0"`
	MaxRetries     int     `yaml:"max_retries" json:"max_retries" validate:"gte=0,lte=10"`
}

// StorageConfig locates persisted state.
type StorageConfig struct {
	CardsFile string           `yaml:"cards_file,omitempty" json:"cards_file,omitempty"`
	History   history.DBConfig `yaml:"history" json:"history"`
}

// Default returns a configuration with built-in defaults rooted at the
// config directory. It reads neither files nor the environment.
func Default() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".zerodesign")
	}
	return &Config{
		Output:  OutputConfig{DefaultFormat: FormatTable, Precision: defaultPrecision},
		Logging: LoggingConfig{Level: "info"},
		RefData: RefDataConfig{
			CacheEnabled:    true,
			CacheTTLSeconds: int(cache.DefaultTTL / time.Second),
			CacheDir:        filepath.Join(dir, cacheDirName),
			TimeoutSeconds:  defaultTimeoutSeconds,
		},
		Advisor: AdvisorConfig{TimeoutSeconds: defaultTimeoutSeconds, RatePerSecond: 2, MaxRetries: 3},
		Storage: StorageConfig{
			CardsFile: filepath.Join(dir, cardsFileName),
			History: history.DBConfig{
				Driver: history.DriverSQLite,
				DSN:    filepath.Join(dir, historyFileName),
			},
		},
		configPath: filepath.Join(dir, configFileName),
	}
}

// New returns the defaults overlaid with the global config file, if any,
// and then with ZERODESIGN_* environment overrides. A config file that
// cannot be read is reported through Logger and otherwise ignored.
func New() *Config {
	cfg := Default()
	if err := cfg.loadFile(cfg.configPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		Logger.Warn().
			Str("component", "config").
			Str("operation", "load").
			Err(err).
			Str("path", cfg.configPath).
			Msg("ignoring unreadable config file")
	}
	cfg.applyEnv()
	return cfg
}

// Load returns the defaults overlaid with the file at path. Unlike New it
// reports read and parse errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ConfigPath is where Save writes.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp := c.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, c.configPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming config: %w", err)
	}
	return nil
}

// envOverride maps an environment variable onto a dotted config key.
type envOverride struct {
	env string
	key string
}

//nolint:gochecknoglobals // Fixed mapping table.
var envOverrides = []envOverride{
	{"ZERODESIGN_OUTPUT_FORMAT", "output.default_format"},
	{"ZERODESIGN_OUTPUT_PRECISION", "output.precision"},
	{"ZERODESIGN_LOG_LEVEL", "logging.level"},
	{"ZERODESIGN_LOG_FORMAT", "logging.format"},
	{"ZERODESIGN_LOG_FILE", "logging.file"},
	{"ZERODESIGN_FIBER_SOURCE", "refdata.fiber_source"},
	{"ZERODESIGN_PROCESS_SOURCE", "refdata.process_source"},
	{"ZERODESIGN_MODELS_SOURCE", "refdata.models_source"},
	{"ZERODESIGN_CACHE_ENABLED", "refdata.cache_enabled"},
	{"ZERODESIGN_BENCHMARK_SOURCE", "benchmark.source"},
	{"ZERODESIGN_ADVISOR_ENABLED", "advisor.enabled"},
	{"ZERODESIGN_ADVISOR_ENDPOINT", "advisor.endpoint"},
	{"ZERODESIGN_CARDS_FILE", "storage.cards_file"},
	{"ZERODESIGN_HISTORY_DRIVER", "storage.history.driver"},
	{"ZERODESIGN_HISTORY_DSN", "storage.history.dsn"},
}

func (c *Config) applyEnv() {
	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.env)
		if !ok || v == "" {
			continue
		}
		if err := c.Set(o.key, v); err != nil {
			Logger.Warn().
				Str("component", "config").
				Str("operation", "env_override").
				Str("env", o.env).
				Err(err).
				Msg("ignoring invalid environment override")
		}
	}
}

// Get returns the value at a dotted key such as "output.precision".
func (c *Config) Get(key string) (any, error) {
	tree, err := c.tree()
	if err != nil {
		return nil, err
	}
	parts := strings.Split(key, ".")
	var cur any = tree
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if cur, ok = m[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	return cur, nil
}

// Set stores value at a dotted key. Numeric and boolean leaves parse value
// as a YAML scalar; string leaves store it as given. Only keys that already
// exist in the configuration can be set.
func (c *Config) Set(key, value string) error {
	tree, err := c.tree()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	m := tree
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		m = next
	}
	leaf := parts[len(parts)-1]
	current, exists := m[leaf]
	optional := c.isOptionalLeaf(key)
	if !exists && !optional {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	// String leaves are stored verbatim (":memory:" is a valid DSN).
	if _, isString := current.(string); isString || optional {
		m[leaf] = value
	} else {
		var parsed any
		if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
			parsed = value
		}
		m[leaf] = parsed
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	next := Config{configPath: c.configPath}
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	*c = next
	return nil
}

// isOptionalLeaf reports keys that are omitted from YAML when empty and so
// do not show up in the marshaled tree.
func (c *Config) isOptionalLeaf(key string) bool {
	switch key {
	case "logging.format", "logging.file",
		"refdata.fiber_source", "refdata.process_source", "refdata.models_source", "refdata.cache_dir",
		"benchmark.source", "advisor.endpoint", "storage.cards_file":
		return true
	}
	return false
}

func (c *Config) tree() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("reading config tree: %w", err)
	}
	for _, section := range []string{keyOutput, keyLogging, keyRefData, keyBenchmark, keyAdvisor, keyStorage} {
		if _, ok := tree[section].(map[string]any); !ok {
			tree[section] = map[string]any{}
		}
	}
	return tree, nil
}

// Sources returns the reference sources to bootstrap.
func (r RefDataConfig) Sources() refdata.Sources {
	return refdata.Sources{Fibers: r.FiberSource, Processes: r.ProcessSource, Models: r.ModelsSource}
}

// CacheTTL returns the configured TTL clamped into the cache's limits.
func (r RefDataConfig) CacheTTL() time.Duration {
	ttl, err := cache.ParseTTL(strconv.Itoa(r.CacheTTLSeconds))
	if err != nil {
		return cache.DefaultTTL
	}
	return ttl
}

// Timeout returns the fetch timeout.
func (r RefDataConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// ClientConfig converts the section into advisor client settings.
func (a AdvisorConfig) ClientConfig() advisor.Config {
	return advisor.Config{
		Endpoint:      a.Endpoint,
		Timeout:       time.Duration(a.TimeoutSeconds) * time.Second,
		RatePerSecond: a.RatePerSecond,
		MaxRetries:    a.MaxRetries,
	}
}
