// Package config loads extraction configuration from viper (config file,
// environment, flags) with optional named profiles layered on top, so one
// config file can drive several applications with different locale sets.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/lingo/pkg/scanner"
	"github.com/jingkaihe/lingo/pkg/translate"
)

// Config is the full extraction configuration.
type Config struct {
	// Attributes is the allow-list of translatable attribute names.
	Attributes []string `mapstructure:"attributes"`
	// BaseLocale holds untranslated source text.
	BaseLocale string `mapstructure:"base_locale"`
	// Locales are all known locales; the base locale is always included.
	Locales []string `mapstructure:"locales"`
	// CatalogDir holds the per-locale catalog files.
	CatalogDir string `mapstructure:"catalog_dir"`
	// Suffixes are component role suffixes stripped during namespace
	// derivation.
	Suffixes []string `mapstructure:"suffixes"`
	// Workers bounds extraction parallelism.
	Workers int `mapstructure:"workers"`
	// NoCache disables the sqlite translation memory.
	NoCache bool `mapstructure:"no_cache"`
	// Backend configures the translation backend.
	Backend translate.Config `mapstructure:"backend"`
	// Profiles are named partial overrides selected with --profile.
	Profiles map[string]ProfileConfig `mapstructure:"profiles"`
}

// ProfileConfig is a partial Config merged over the base configuration.
type ProfileConfig map[string]any

// FromViper loads the configuration, applying the active profile when one is
// selected.
func FromViper() (*Config, error) {
	config := defaults()
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if name := viper.GetString("profile"); name != "" && name != "default" {
		profile, ok := config.Profiles[name]
		if !ok {
			return nil, errors.Errorf("unknown profile: %s", name)
		}
		if err := applyProfile(config, profile); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		Attributes: scanner.DefaultAttributes,
		BaseLocale: "en",
		CatalogDir: "i18n",
		Workers:    4,
		Backend: translate.Config{
			Name:     "none",
			Timeout:  translate.DefaultTimeout,
			Attempts: translate.DefaultAttempts,
		},
	}
}

// applyProfile decodes a profile over the config, leaving unset profile
// fields alone.
func applyProfile(config *Config, profile ProfileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}
	if err := decoder.Decode(map[string]any(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile")
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.BaseLocale == "" {
		return errors.New("base_locale must not be empty")
	}
	if c.CatalogDir == "" {
		return errors.New("catalog_dir must not be empty")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend.timeout must not be negative")
	}
	return nil
}

// BackendTimeoutOrDefault returns the configured backend timeout, defaulted.
func (c *Config) BackendTimeoutOrDefault() time.Duration {
	if c.Backend.Timeout <= 0 {
		return translate.DefaultTimeout
	}
	return c.Backend.Timeout
}
