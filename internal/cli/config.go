package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskbin/internal/paths"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend          = "backend"
	cfgKeyLogLevel         = "log_level"
	cfgKeyLogFormat        = "log_format"
	cfgKeyRetentionDefault = "retention.default"
	cfgKeyBatching         = "lifecycle.empty_trash_batching"

	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// configFile holds the structure written to a fresh config.yaml.
// Durations are kept as strings so the file stays readable.
type configFile struct {
	Backend   string                `yaml:"backend"`
	DataDir   string                `yaml:"data_dir,omitempty"`
	LogLevel  string                `yaml:"log_level"`
	LogFormat string                `yaml:"log_format"`
	Retention retentionFile         `yaml:"retention"`
	Authz     types.AuthzConfig     `yaml:"authz"`
	Lifecycle types.LifecycleConfig `yaml:"lifecycle"`
}

type retentionFile struct {
	Default string            `yaml:"default"`
	Tiers   map[string]string `yaml:"tiers,omitempty"`
	Owners  map[string]string `yaml:"owners,omitempty"`
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(configDir, dataDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:   types.BackendSQLite,
		DataDir:   dataDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Retention: retentionFile{Default: types.DefaultRetention.String()},
		Lifecycle: types.LifecycleConfig{EmptyTrashBatching: types.BatchingAtomic},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadConfig reads config.yaml from configDir with Viper, applies defaults
// and resolves the data directory. A missing config.yaml is not an error.
func loadConfig(configDir, dataDirFlag string) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetDefault(cfgKeyRetentionDefault, types.DefaultRetention.String())
	v.SetDefault(cfgKeyBatching, types.BatchingAtomic)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, cfg.DataDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir
	if cfg.MetricsFile != "" && !filepath.IsAbs(cfg.MetricsFile) {
		cfg.MetricsFile = filepath.Join(configDir, cfg.MetricsFile)
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", paths.ConfigFile(configDir), err)
	}
	return cfg, nil
}
