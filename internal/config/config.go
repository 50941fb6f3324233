package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config represents the pipeline runner's configuration. It is intentionally
// narrow: the core asset pipeline takes a Layout (see pkg/asset) directly, and
// this type only carries the settings a `cmd/gob` invocation needs to build one.
type Config struct {
	// Logging configuration
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error fatal panic"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=text json"`

	// Root is the project root passed to pkg/asset.NewLayout.
	Root string `mapstructure:"root"`

	// Pipeline holds batching and concurrency knobs for the import orchestrator.
	Pipeline PipelineConfig `mapstructure:"pipeline"`

	// Internal fields for configuration management
	viper      *viper.Viper `mapstructure:"-"`
	configFile string       `mapstructure:"-"`
	loadedFrom []string     `mapstructure:"-"`
}

// PipelineConfig contains import-orchestrator tuning parameters.
type PipelineConfig struct {
	ChunkSize        int `mapstructure:"chunk_size"`
	Workers          int `mapstructure:"workers"`
	ImportsPerSecond int `mapstructure:"imports_per_second"`
}

// Load loads configuration from the environment, an optional config file, and defaults.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadOptions provides configuration loading options.
type LoadOptions struct {
	ConfigFile string
}

// LoadWithOptions loads configuration with the provided options using Viper as the core engine.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureFileDiscovery(v, opts.ConfigFile)

	var loadedFrom []string
	configFile := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		loadedFrom = append(loadedFrom, "defaults")
	} else {
		configFile = v.ConfigFileUsed()
		loadedFrom = append(loadedFrom, fmt.Sprintf("file:%s", configFile))
	}

	v.SetEnvPrefix("GOB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.viper = v
	cfg.configFile = configFile
	cfg.loadedFrom = loadedFrom

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return &cfg, nil
}

// LoadDefaults returns a configuration populated purely from Options, skipping
// file and environment discovery. Useful for tests and one-off tool invocations.
func LoadDefaults() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default configuration: %v", err))
	}

	cfg.viper = v
	cfg.loadedFrom = []string{"defaults"}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	for _, opt := range Options {
		switch opt.Type {
		case "bool":
			v.SetDefault(opt.Key, opt.DefaultValue == "true")
		case "int":
			if val, err := strconv.Atoi(opt.DefaultValue); err == nil {
				v.SetDefault(opt.Key, val)
			}
		default:
			v.SetDefault(opt.Key, opt.DefaultValue)
		}
	}
}

func configureFileDiscovery(v *viper.Viper, configFile string) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		return
	}

	v.SetConfigName("gob")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
}

func validate(cfg *Config) error {
	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, cfg.LogLevel) {
		return &ValidationError{Field: "log_level", Value: cfg.LogLevel, ValidOptions: validLogLevels}
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, cfg.LogFormat) {
		return &ValidationError{Field: "log_format", Value: cfg.LogFormat, ValidOptions: validLogFormats}
	}

	if cfg.Pipeline.ChunkSize <= 0 {
		return &ValidationError{Field: "pipeline.chunk_size", Value: strconv.Itoa(cfg.Pipeline.ChunkSize), Message: "must be positive"}
	}

	if cfg.Pipeline.Workers <= 0 {
		return &ValidationError{Field: "pipeline.workers", Value: strconv.Itoa(cfg.Pipeline.Workers), Message: "must be positive"}
	}

	if cfg.Root != "" {
		if info, err := os.Stat(cfg.Root); err != nil {
			if os.IsNotExist(err) {
				return &ValidationError{Field: "root", Value: cfg.Root, Message: "project root does not exist"}
			}
			return errors.Wrap(err, "failed to access project root")
		} else if !info.IsDir() {
			return &ValidationError{Field: "root", Value: cfg.Root, Message: "project root must be a directory"}
		}
	}

	return nil
}

// ValidationError represents a configuration validation error with helpful context.
type ValidationError struct {
	Field        string
	Value        string
	ValidOptions []string
	Message      string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid value"
	}
	if len(e.ValidOptions) > 0 {
		return fmt.Sprintf("%s: %s (got %q, valid options: %s)", e.Field, msg, e.Value, strings.Join(e.ValidOptions, ", "))
	}
	return fmt.Sprintf("%s: %s (got %q)", e.Field, msg, e.Value)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// GetConfigFile returns the path to the configuration file that was loaded, if any.
func (c *Config) GetConfigFile() string {
	return c.configFile
}

// GetLoadedSources returns the sources from which configuration was loaded.
func (c *Config) GetLoadedSources() []string {
	return c.loadedFrom
}

// SetValue sets a configuration value on the underlying Viper instance. It does
// not persist to disk; callers that need durable overrides should write a gob.yaml.
func (c *Config) SetValue(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}
	c.viper.Set(key, value)
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
