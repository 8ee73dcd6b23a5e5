package config

import (
	"fmt"
	"sort"

	"solana-copytrade-lab/internal/domain"
)

// ModeRegistry is the typed mode-profile registry resolved once at config
// load. Unknown mode names resolve to the default profile through an
// explicit fallback branch, never an error.
type ModeRegistry struct {
	profiles    map[domain.Mode]*domain.ModeProfile
	order       []domain.Mode // ascending HoldSecMin, then name
	defaultMode domain.Mode
}

// BuildRegistry resolves the configured modes into a typed registry.
// Assumes cfg has passed Validate.
func BuildRegistry(cfg *Config) (*ModeRegistry, error) {
	if len(cfg.Modes) == 0 {
		return nil, fmt.Errorf("no modes configured")
	}

	profiles := make(map[domain.Mode]*domain.ModeProfile, len(cfg.Modes))
	order := make([]domain.Mode, 0, len(cfg.Modes))

	for name, m := range cfg.Modes {
		mode := domain.Mode(name)
		profiles[mode] = &domain.ModeProfile{
			Mode:                mode,
			TTLSec:              m.TTLSec,
			TPPct:               m.TPPct,
			SLPct:               m.SLPct,
			HoldSecMin:          m.HoldSecMin,
			HoldSecMax:          m.HoldSecMax,
			MinEdgeBps:          m.MinEdgeBps,
			BasePositionPct:     m.BasePositionPct,
			MaxSlippageBps:      m.MaxSlippageBps,
			TrailingDistanceBps: m.TrailingDistanceBps,
		}
		order = append(order, mode)
	}

	sort.Slice(order, func(i, j int) bool {
		pi, pj := profiles[order[i]], profiles[order[j]]
		if pi.HoldSecMin != pj.HoldSecMin {
			return pi.HoldSecMin < pj.HoldSecMin
		}
		return order[i] < order[j]
	})

	defaultMode := domain.Mode(cfg.DefaultMode)
	if _, ok := profiles[defaultMode]; !ok {
		return nil, fmt.Errorf("default mode %q not registered", cfg.DefaultMode)
	}

	return &ModeRegistry{
		profiles:    profiles,
		order:       order,
		defaultMode: defaultMode,
	}, nil
}

// Resolve returns the profile for an explicit mode name. Unknown or empty
// names fall back to the default profile.
func (r *ModeRegistry) Resolve(name string) *domain.ModeProfile {
	if name == "" {
		return r.profiles[r.defaultMode]
	}
	if p, ok := r.profiles[domain.Mode(name)]; ok {
		return p
	}
	// Documented fallback: unknown mode names select the default profile.
	return r.profiles[r.defaultMode]
}

// ByHoldSec buckets a wallet's median hold duration into a mode profile.
// The first profile whose [HoldSecMin, HoldSecMax) bucket contains the
// value wins; values past every bucket select the last (longest) profile.
func (r *ModeRegistry) ByHoldSec(medianHoldSec int64) *domain.ModeProfile {
	for _, mode := range r.order {
		p := r.profiles[mode]
		if medianHoldSec >= p.HoldSecMin && medianHoldSec < p.HoldSecMax {
			return p
		}
	}
	return r.profiles[r.order[len(r.order)-1]]
}

// MostConservative returns the profile with the lowest base position size.
// Used by the cooldown path after consecutive losses.
func (r *ModeRegistry) MostConservative() *domain.ModeProfile {
	var best *domain.ModeProfile
	for _, mode := range r.order {
		p := r.profiles[mode]
		if best == nil || p.BasePositionPct < best.BasePositionPct {
			best = p
		}
	}
	return best
}

// Default returns the default profile.
func (r *ModeRegistry) Default() *domain.ModeProfile {
	return r.profiles[r.defaultMode]
}

// Modes returns the registered mode names in deterministic order.
func (r *ModeRegistry) Modes() []domain.Mode {
	out := make([]domain.Mode, len(r.order))
	copy(out, r.order)
	return out
}
