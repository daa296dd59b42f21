// Package retention implements the RetentionPolicy from configuration:
// owners map to subscription tiers, tiers map to windows.
package retention

import (
	"context"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Compile-time interface check.
var _ types.RetentionPolicy = (*TierPolicy)(nil)

// TierPolicy answers RetentionWindow from a RetentionConfig.
type TierPolicy struct {
	def    time.Duration
	tiers  map[string]time.Duration
	owners map[string]string
}

// NewTierPolicy returns a policy for cfg. A zero default becomes
// types.DefaultRetention. cfg should already be validated.
//
// Tier names and owner ids match case-insensitively, since Viper lowercases
// map keys read from YAML.
func NewTierPolicy(cfg types.RetentionConfig) *TierPolicy {
	def := cfg.Default
	if def <= 0 {
		def = types.DefaultRetention
	}
	p := &TierPolicy{
		def:    def,
		tiers:  make(map[string]time.Duration, len(cfg.Tiers)),
		owners: make(map[string]string, len(cfg.Owners)),
	}
	for k, v := range cfg.Tiers {
		p.tiers[strings.ToLower(k)] = v
	}
	for k, v := range cfg.Owners {
		p.owners[strings.ToLower(k)] = strings.ToLower(v)
	}
	return p
}

// RetentionWindow returns the window of the owner's tier, or the default
// for owners without one.
func (p *TierPolicy) RetentionWindow(_ context.Context, ownerID string) (time.Duration, error) {
	if tier, ok := p.owners[strings.ToLower(ownerID)]; ok {
		if d, ok := p.tiers[tier]; ok {
			return d, nil
		}
	}
	return p.def, nil
}
