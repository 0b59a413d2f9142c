package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// Suggest configures the habit suggestion provider.
type Suggest struct {
	Model       string        `yaml:"model"`
	Endpoint    string        `yaml:"endpoint"`
	Timeout     time.Duration `yaml:"timeout"`
	MinInterval time.Duration `yaml:"min_interval"`
	MockDelay   time.Duration `yaml:"mock_delay"`
}

// Config is the on-disk configuration file (config.yaml).
type Config struct {
	Storage  string  `yaml:"storage"`
	Timezone string  `yaml:"timezone"`
	Debug    bool    `yaml:"debug"`
	Suggest  Suggest `yaml:"suggest"`

	// path the config was read from, empty when defaults were used
	path string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage:  constants.DefaultStorePath,
		Timezone: constants.DefaultTimezone,
		Suggest: Suggest{
			Model:       constants.DefaultSuggestModel,
			Endpoint:    constants.DefaultSuggestEndpoint,
			Timeout:     constants.DefaultSuggestTimeout,
			MinInterval: constants.DefaultSuggestMinInterval,
			MockDelay:   constants.DefaultMockDelay,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	path = ExpandHome(path)
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		cfg.path = path
	case os.IsNotExist(err):
		// defaults
	default:
		return Config{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	overrideFromEnv(&cfg)
	cfg.Storage = ExpandHome(cfg.Storage)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv(envKey(constants.SettingStorage)); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv(envKey(constants.SettingTimezone)); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(envKey(constants.SettingDebug)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv(envKey(constants.SettingSuggestModel)); v != "" {
		cfg.Suggest.Model = v
	}
}

func envKey(setting string) string {
	return strings.ToUpper(constants.AppName + "_" + setting)
}

// Validate checks the timezone and durations.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("storage must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Suggest.Timeout < 0 || c.Suggest.MinInterval < 0 || c.Suggest.MockDelay < 0 {
		return fmt.Errorf("suggest durations must not be negative")
	}
	if c.Suggest.Model == "" || c.Suggest.Endpoint == "" {
		return fmt.Errorf("suggest.model and suggest.endpoint are required")
	}
	return nil
}

// Location resolves the configured timezone. Validate has already run.
func (c Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c Config) Path() string {
	return c.path
}

// Dir is the directory holding config, logs and (by default) the database.
func (c Config) Dir() string {
	if c.path != "" {
		return filepath.Dir(c.path)
	}
	return ExpandHome(constants.DefaultConfigDir)
}

// Save writes the config as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
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
