package config

import (
	"bytes"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/conductor/internal/types"
)

// Loader loads configuration from YAML files.
type Loader struct {
	validator *Validator
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{
		validator: NewValidator(),
	}
}

// Load reads, interpolates, and validates the configuration at path.
// Environment references of the form ${VAR} are expanded before parsing, so
// secrets like api_key can stay out of the file.
func (l *Loader) Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	expanded := os.ExpandEnv(string(raw))

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader([]byte(expanded))); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to parse config file", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithDefaults behaves like Load but returns the validated defaults when
// the file does not exist.
func (l *Loader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return l.Load(path)
}
