package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigOption represents a configuration option with validation
type ConfigOption struct {
	Key           string
	Description   string
	AllowedValues []string
	DefaultValue  string
	Type          string // "string", "bool", "int"
}

// Options contains all available configuration options, used both to seed Viper
// defaults and to validate ad-hoc key/value overrides.
var Options = []ConfigOption{
	{
		Key:           "log_level",
		Description:   "Set the logging level",
		AllowedValues: []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"},
		DefaultValue:  "info",
		Type:          "string",
	},
	{
		Key:           "log_format",
		Description:   "Set the logging format",
		AllowedValues: []string{"text", "json"},
		DefaultValue:  "text",
		Type:          "string",
	},
	{
		Key:          "root",
		Description:  "Project root containing Assets/, Preferences/, .cache/ and .temp/",
		DefaultValue: ".",
		Type:         "string",
	},
	{
		Key:          "pipeline.chunk_size",
		Description:  "Number of source paths imported per batch before reverse-dependency edges are flushed",
		DefaultValue: "250",
		Type:         "int",
	},
	{
		Key:          "pipeline.workers",
		Description:  "Maximum number of goroutines used to import a single chunk concurrently",
		DefaultValue: "4",
		Type:         "int",
	},
	{
		Key:          "pipeline.imports_per_second",
		Description:  "Rate limit (imports/sec) for the owned-worker pool, 0 disables limiting; the import command does not read it",
		DefaultValue: "0",
		Type:         "int",
	},
}

// FindOption looks up a known option by key.
func FindOption(key string) (*ConfigOption, bool) {
	for _, opt := range Options {
		if opt.Key == key {
			return &opt, true
		}
	}
	return nil, false
}

// ValidateKey checks that key refers to a known configuration option.
func ValidateKey(key string) error {
	if _, ok := FindOption(key); !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// ValidateValue checks that value is acceptable for the named option.
func ValidateValue(key, value string) error {
	opt, ok := FindOption(key)
	if !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	switch opt.Type {
	case "bool":
		if _, err := strconv.ParseBool(value); err != nil {
			return &InvalidValueError{Key: key, Value: value, Type: opt.Type}
		}
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return &InvalidValueError{Key: key, Value: value, Type: opt.Type}
		}
	}

	if len(opt.AllowedValues) > 0 {
		for _, allowed := range opt.AllowedValues {
			if allowed == value {
				return nil
			}
		}
		return &InvalidValueError{Key: key, Value: value, Allowed: opt.AllowedValues}
	}

	return nil
}

// InvalidValueError reports a configuration value that failed validation.
type InvalidValueError struct {
	Key     string
	Value   string
	Type    string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("%s: invalid value %q (valid options: %s)", e.Key, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("%s: invalid value %q for type %s", e.Key, e.Value, e.Type)
}
