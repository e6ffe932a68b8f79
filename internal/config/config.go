// Package config provides configuration management for tabula DataFrame operations
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Sort algorithm names accepted by Config.SortAlgorithm
const (
	SortQuick = "quick"
	SortMerge = "merge"
)

// Config represents the global configuration for tabula DataFrame operations
type Config struct {
	// Algorithm Configuration
	SortAlgorithm   string `json:"sort_algorithm" yaml:"sort_algorithm"`       // "quick" (partition-exchange) or "merge"
	MergeSuffix     string `json:"merge_suffix" yaml:"merge_suffix"`           // Suffix appended to colliding right-hand column names
	Precision       int    `json:"precision" yaml:"precision"`                 // Decimal places kept by floating aggregation results
	DefaultTakeRows int    `json:"default_take_rows" yaml:"default_take_rows"` // Rows returned by Head/Tail without an explicit count
	RandomSeed      int64  `json:"random_seed" yaml:"random_seed"`             // Seed for Random aggregation and TakeRandom (0 = seed from clock)

	// Text Configuration
	DateTimeLayout    string `json:"datetime_layout" yaml:"datetime_layout"`         // Preferred layout when parsing timestamps from text
	MissingValueToken string `json:"missing_value_token" yaml:"missing_value_token"` // Extra token read as missing besides the empty field
	DisplayRows       int    `json:"display_rows" yaml:"display_rows"`               // Rows rendered by String()

	// Debugging Configuration
	VerboseLogging    bool   `json:"verbose_logging" yaml:"verbose_logging"`       // Enable debug logging of engine decisions
	LogLevel          string `json:"log_level" yaml:"log_level"`                   // zap level name used when verbose logging is on
	MetricsCollection bool   `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultSortAlgorithm   = SortQuick
	DefaultMergeSuffix     = "right"
	DefaultPrecision       = 6
	DefaultTakeRows        = 5
	DefaultDateTimeLayout  = "2006-01-02 15:04:05"
	DefaultDisplayRows     = 15
	DefaultLogLevel        = "info"
	maxPrecision           = 15
	envPrefix              = "TABULA_"
	unsupportedFormatError = "unsupported config file format: %s"
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		SortAlgorithm:   DefaultSortAlgorithm,
		MergeSuffix:     DefaultMergeSuffix,
		Precision:       DefaultPrecision,
		DefaultTakeRows: DefaultTakeRows,
		RandomSeed:      0, // Seed from clock

		DateTimeLayout:    DefaultDateTimeLayout,
		MissingValueToken: "",
		DisplayRows:       DefaultDisplayRows,

		VerboseLogging:    false,
		LogLevel:          DefaultLogLevel,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	switch c.SortAlgorithm {
	case SortQuick, SortMerge:
	default:
		return fmt.Errorf("SortAlgorithm must be %q or %q, got %q", SortQuick, SortMerge, c.SortAlgorithm)
	}

	if c.MergeSuffix == "" {
		return fmt.Errorf("MergeSuffix must not be empty")
	}

	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("Precision must be between 0 and %d, got %d", maxPrecision, c.Precision)
	}

	if c.DefaultTakeRows <= 0 {
		return fmt.Errorf("DefaultTakeRows must be positive, got %d", c.DefaultTakeRows)
	}

	if c.DisplayRows <= 0 {
		return fmt.Errorf("DisplayRows must be positive, got %d", c.DisplayRows)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.SortAlgorithm == "" {
		c.SortAlgorithm = defaults.SortAlgorithm
	}
	if c.MergeSuffix == "" {
		c.MergeSuffix = defaults.MergeSuffix
	}
	if c.Precision == 0 {
		c.Precision = defaults.Precision
	}
	if c.DefaultTakeRows == 0 {
		c.DefaultTakeRows = defaults.DefaultTakeRows
	}
	if c.DateTimeLayout == "" {
		c.DateTimeLayout = defaults.DateTimeLayout
	}
	if c.DisplayRows == 0 {
		c.DisplayRows = defaults.DisplayRows
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// Boolean fields and RandomSeed keep their zero values: false and 0 are meaningful settings.

	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// ResetGlobalConfig restores the default global configuration
func ResetGlobalConfig() {
	SetGlobalConfig(NewConfig())
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err = LoadFromJSON(data)
	case ".yaml", ".yml":
		config, err = LoadFromYAML(data)
	default:
		return Config{}, fmt.Errorf(unsupportedFormatError, ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from TABULA_* environment variables.
// Unparseable values are ignored and the default kept.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := getenv("SORT_ALGORITHM"); val != "" {
		config.SortAlgorithm = strings.ToLower(val)
	}

	if val := getenv("MERGE_SUFFIX"); val != "" {
		config.MergeSuffix = val
	}

	if val := getenv("PRECISION"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.Precision = parsed
		}
	}

	if val := getenv("DEFAULT_TAKE_ROWS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.DefaultTakeRows = parsed
		}
	}

	if val := getenv("RANDOM_SEED"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.RandomSeed = parsed
		}
	}

	if val := getenv("DATETIME_LAYOUT"); val != "" {
		config.DateTimeLayout = val
	}

	if val, ok := os.LookupEnv(envPrefix + "MISSING_VALUE_TOKEN"); ok {
		config.MissingValueToken = val
	}

	if val := getenv("DISPLAY_ROWS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.DisplayRows = parsed
		}
	}

	if val := getenv("VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := getenv("LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	if val := getenv("METRICS_COLLECTION"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.MetricsCollection = parsed
		}
	}

	return config
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}
