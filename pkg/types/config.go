package types

import (
	"errors"
	"time"
)

// Config holds backend selection and the policy knobs of the lifecycle
// engine. It is loaded from config.yaml by the CLI. MetricsFile, when set,
// receives the lifecycle counters in Prometheus text format after each
// command.
type Config struct {
	Backend     string          `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir     string          `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	LogLevel    string          `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat   string          `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	MetricsFile string          `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
	Retention   RetentionConfig `json:"retention" yaml:"retention" mapstructure:"retention"`
	Authz       AuthzConfig     `json:"authz" yaml:"authz" mapstructure:"authz"`
	Lifecycle   LifecycleConfig `json:"lifecycle" yaml:"lifecycle" mapstructure:"lifecycle"`
}

// RetentionConfig maps owners to subscription tiers and tiers to retention
// windows. Owners without a tier get Default.
type RetentionConfig struct {
	Default time.Duration            `json:"default" yaml:"default" mapstructure:"default"`
	Tiers   map[string]time.Duration `json:"tiers" yaml:"tiers" mapstructure:"tiers"`
	Owners  map[string]string        `json:"owners" yaml:"owners" mapstructure:"owners"`
}

// AuthzConfig tunes the default role policy.
type AuthzConfig struct {
	// EditorsMayDelete lets editors soft-delete lists and tasks. Restore,
	// force-delete and project deletion stay owner-only.
	EditorsMayDelete bool `json:"editors_may_delete" yaml:"editors_may_delete" mapstructure:"editors_may_delete"`
}

// LifecycleConfig tunes the lifecycle engine.
type LifecycleConfig struct {
	EmptyTrashBatching string `json:"empty_trash_batching" yaml:"empty_trash_batching" mapstructure:"empty_trash_batching"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// EmptyTrash batching modes.
const (
	BatchingAtomic     = "atomic"
	BatchingPerProject = "per_project"
)

// DefaultRetention is the retention window used when none is configured.
const DefaultRetention = 30 * 24 * time.Hour

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrBatchingUnknown  = errors.New("unknown empty trash batching mode")
	ErrRetentionInvalid = errors.New("retention window must be positive")
	ErrTierUnknown      = errors.New("owner mapped to unknown tier")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. Zero values for the
// retention default and batching mode are valid and mean "use the default".
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Lifecycle.EmptyTrashBatching {
	case "", BatchingAtomic, BatchingPerProject:
	default:
		return ErrBatchingUnknown
	}
	if c.Retention.Default < 0 {
		return ErrRetentionInvalid
	}
	for _, d := range c.Retention.Tiers {
		if d <= 0 {
			return ErrRetentionInvalid
		}
	}
	for _, tier := range c.Retention.Owners {
		if _, ok := c.Retention.Tiers[tier]; !ok {
			return ErrTierUnknown
		}
	}
	return nil
}

// EffectiveBatching returns the batching mode with the default applied.
func (c Config) EffectiveBatching() string {
	if c.Lifecycle.EmptyTrashBatching == "" {
		return BatchingAtomic
	}
	return c.Lifecycle.EmptyTrashBatching
}
