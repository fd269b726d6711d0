package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ilisfairy/mcl-installer/internal/adoptium"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/manifest"
)

// Config holds the installer settings.
type Config struct {
	// Repo is the MCL repository host, optionally with a path prefix.
	Repo string `yaml:"repo"`
	// Mirror is the Adoptium mirror host with its path prefix.
	Mirror string `yaml:"mirror"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is looked up in the working directory.
	DefaultConfigFilename = "mcl-installer.yaml"

	// DefaultLogLevel is used when the file does not set one.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// ErrInvalidConfig is returned for settings that fail validation.
	ErrInvalidConfig = errors.New("invalid settings")

	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Repo:     manifest.DefaultRepo,
		Mirror:   adoptium.DefaultMirror,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads settings from path, falling back to defaults when the file does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills empty fields with defaults and checks the rest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Repo == "" {
		cfg.Repo = manifest.DefaultRepo
	}

	if cfg.Mirror == "" {
		cfg.Mirror = adoptium.DefaultMirror
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if err := validateHost("repo", cfg.Repo); err != nil {
		return err
	}

	if err := validateHost("mirror", cfg.Mirror); err != nil {
		return err
	}

	if _, err := logger.ParseLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}

	return nil
}

// validateHost accepts "host[:port][/path]" without a scheme.
func validateHost(field, value string) error {
	if strings.Contains(value, "://") {
		return fmt.Errorf("%w: %s %q must not include a scheme", ErrInvalidConfig, field, value)
	}

	parsed, err := url.Parse("https://" + value)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %w", ErrInvalidConfig, field, value, err)
	}

	if parsed.Host == "" || parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("%w: %s %q is not a host path", ErrInvalidConfig, field, value)
	}

	return nil
}
