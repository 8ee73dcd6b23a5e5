package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full strategy configuration. Validation failures are fatal
// at startup, before any trade event is processed.
type Config struct {
	BankrollUSD float64 `mapstructure:"bankroll_usd"`
	DefaultMode string  `mapstructure:"default_mode"`

	Modes map[string]ModeConfig `mapstructure:"modes"`

	Gates     GatesConfig     `mapstructure:"gates"`
	Regime    RegimeConfig    `mapstructure:"regime"`
	Sizing    SizingConfig    `mapstructure:"sizing"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Risk      RiskConfig      `mapstructure:"risk"`
}

// ModeConfig is the on-disk form of one mode profile.
type ModeConfig struct {
	TTLSec              int64   `mapstructure:"ttl_sec"`
	TPPct               float64 `mapstructure:"tp_pct"`
	SLPct               float64 `mapstructure:"sl_pct"`
	HoldSecMin          int64   `mapstructure:"hold_sec_min"`
	HoldSecMax          int64   `mapstructure:"hold_sec_max"`
	MinEdgeBps          float64 `mapstructure:"min_edge_bps"`
	BasePositionPct     float64 `mapstructure:"base_position_pct"`
	MaxSlippageBps      float64 `mapstructure:"max_slippage_bps"`
	TrailingDistanceBps float64 `mapstructure:"trailing_distance_bps"`
}

// GatesConfig holds hard entry gate thresholds.
type GatesConfig struct {
	MinLiquidityUSD  float64 `mapstructure:"min_liquidity_usd"`
	MinVolume24hUSD  float64 `mapstructure:"min_volume_24h_usd"`
	MaxSpreadBps     float64 `mapstructure:"max_spread_bps"`
	MaxTopHolderPct  float64 `mapstructure:"max_top_holder_pct"`
	MinWalletTrades  int     `mapstructure:"min_wallet_trades"`
	MinWalletWinrate float64 `mapstructure:"min_wallet_winrate"`
	MinWalletROI     float64 `mapstructure:"min_wallet_roi"`
}

// RegimeConfig scales edge and sizing by the market-sentiment signal.
type RegimeConfig struct {
	Alpha      float64 `mapstructure:"alpha"`       // edge scaling, [0, 0.5]
	Beta       float64 `mapstructure:"beta"`        // sizing scaling
	ProbWeight float64 `mapstructure:"prob_weight"` // bounded p_model adjustment
}

// SizingConfig bounds position sizes.
type SizingConfig struct {
	MinPositionPct float64 `mapstructure:"min_position_pct"`
	MaxPositionPct float64 `mapstructure:"max_position_pct"`
	MinTradeUSD    float64 `mapstructure:"min_trade_usd"`
	MaxTradeUSD    float64 `mapstructure:"max_trade_usd"`
}

// ExecutionConfig parameterizes the fill simulator.
type ExecutionConfig struct {
	LatencyBaseMs   int64   `mapstructure:"latency_base_ms"`
	LatencyJitterMs int64   `mapstructure:"latency_jitter_ms"`
	SlippageModel   string  `mapstructure:"slippage_model"` // "linear" | "amm"
	SlippageBaseBps float64 `mapstructure:"slippage_base_bps"`
	DepthCoefBps    float64 `mapstructure:"depth_coef_bps"`
	MaxPoolFraction float64 `mapstructure:"max_pool_fraction"` // (0,1], partial fill cap
	FeeBps          float64 `mapstructure:"fee_bps"`
	PriorityFeeUSD  float64 `mapstructure:"priority_fee_usd"`
}

// LifecycleConfig parameterizes exit triggers and partial-fill retries.
type LifecycleConfig struct {
	HazardThreshold float64 `mapstructure:"hazard_threshold"`

	TrailingMinDistanceBps float64 `mapstructure:"trailing_min_distance_bps"`
	TrailingMaxDistanceBps float64 `mapstructure:"trailing_max_distance_bps"`
	VolSensitivity         float64 `mapstructure:"vol_sensitivity"`
	VolReferencePct        float64 `mapstructure:"vol_reference_pct"`
	VolumeWeight           float64 `mapstructure:"volume_weight"`

	RetryMaxAttempts int     `mapstructure:"retry_max_attempts"`
	RetrySizeDecay   float64 `mapstructure:"retry_size_decay"` // (0,1)
	RetryFeeGrowth   float64 `mapstructure:"retry_fee_growth"` // >= 1
}

// RiskConfig holds cross-position limits and the kill-switch thresholds.
type RiskConfig struct {
	MaxOpenPositions   int     `mapstructure:"max_open_positions"`
	MaxExposureUSD     float64 `mapstructure:"max_exposure_usd"`
	MaxMintExposureUSD float64 `mapstructure:"max_mint_exposure_usd"`
	MaxDailyLossPct    float64 `mapstructure:"max_daily_loss_pct"`
	MaxDrawdownPct     float64 `mapstructure:"max_drawdown_pct"`
	CooldownLosses     int     `mapstructure:"cooldown_losses"`
	CooldownTrades     int     `mapstructure:"cooldown_trades"`
}

// Load reads a YAML config file and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration with the U/S/M/L mode ladder.
// Every field is overridable from the config file.
func Default() *Config {
	return &Config{
		BankrollUSD: 10000,
		DefaultMode: "S",
		Modes: map[string]ModeConfig{
			"U": {TTLSec: 60, TPPct: 0.05, SLPct: -0.05, HoldSecMin: 0, HoldSecMax: 120,
				MinEdgeBps: 20, BasePositionPct: 0.01, MaxSlippageBps: 150, TrailingDistanceBps: 0},
			"S": {TTLSec: 300, TPPct: 0.08, SLPct: -0.06, HoldSecMin: 120, HoldSecMax: 900,
				MinEdgeBps: 30, BasePositionPct: 0.02, MaxSlippageBps: 120, TrailingDistanceBps: 200},
			"M": {TTLSec: 1800, TPPct: 0.15, SLPct: -0.08, HoldSecMin: 900, HoldSecMax: 3600,
				MinEdgeBps: 50, BasePositionPct: 0.03, MaxSlippageBps: 100, TrailingDistanceBps: 300},
			"L": {TTLSec: 7200, TPPct: 0.30, SLPct: -0.10, HoldSecMin: 3600, HoldSecMax: 86400,
				MinEdgeBps: 80, BasePositionPct: 0.04, MaxSlippageBps: 80, TrailingDistanceBps: 400},
		},
		Gates: GatesConfig{
			MinLiquidityUSD:  10000,
			MinVolume24hUSD:  25000,
			MaxSpreadBps:     300,
			MaxTopHolderPct:  40,
			MinWalletTrades:  20,
			MinWalletWinrate: 0.45,
			MinWalletROI:     0.0,
		},
		Regime: RegimeConfig{Alpha: 0.2, Beta: 0.3, ProbWeight: 0.05},
		Sizing: SizingConfig{
			MinPositionPct: 0.005,
			MaxPositionPct: 0.05,
			MinTradeUSD:    10,
			MaxTradeUSD:    2000,
		},
		Execution: ExecutionConfig{
			LatencyBaseMs:   100,
			LatencyJitterMs: 400,
			SlippageModel:   "linear",
			SlippageBaseBps: 25,
			DepthCoefBps:    5000,
			MaxPoolFraction: 0.02,
			FeeBps:          10,
			PriorityFeeUSD:  0.05,
		},
		Lifecycle: LifecycleConfig{
			HazardThreshold:        0.8,
			TrailingMinDistanceBps: 50,
			TrailingMaxDistanceBps: 800,
			VolSensitivity:         0.5,
			VolReferencePct:        5.0,
			VolumeWeight:           0.25,
			RetryMaxAttempts:       3,
			RetrySizeDecay:         0.5,
			RetryFeeGrowth:         1.5,
		},
		Risk: RiskConfig{
			MaxOpenPositions:   5,
			MaxExposureUSD:     5000,
			MaxMintExposureUSD: 1500,
			MaxDailyLossPct:    0.05,
			MaxDrawdownPct:     0.15,
			CooldownLosses:     3,
			CooldownTrades:     10,
		},
	}
}

// Validate checks configuration invariants. Returns the first violation.
func (c *Config) Validate() error {
	if c.BankrollUSD <= 0 {
		return fmt.Errorf("bankroll_usd must be > 0, got %v", c.BankrollUSD)
	}
	if len(c.Modes) == 0 {
		return fmt.Errorf("at least one mode must be configured")
	}
	if _, ok := c.Modes[c.DefaultMode]; !ok {
		return fmt.Errorf("default_mode %q is not a configured mode", c.DefaultMode)
	}

	for name, m := range c.Modes {
		if m.TTLSec <= 0 {
			return fmt.Errorf("mode %s: ttl_sec must be > 0, got %d", name, m.TTLSec)
		}
		if m.TPPct <= 0 {
			return fmt.Errorf("mode %s: tp_pct must be > 0, got %v", name, m.TPPct)
		}
		if m.SLPct >= 0 {
			return fmt.Errorf("mode %s: sl_pct must be < 0, got %v", name, m.SLPct)
		}
		if m.HoldSecMax < m.HoldSecMin {
			return fmt.Errorf("mode %s: hold_sec_max %d < hold_sec_min %d", name, m.HoldSecMax, m.HoldSecMin)
		}
		if m.MaxSlippageBps < 0 {
			return fmt.Errorf("mode %s: max_slippage_bps must be >= 0, got %v", name, m.MaxSlippageBps)
		}
		if m.BasePositionPct <= 0 {
			return fmt.Errorf("mode %s: base_position_pct must be > 0, got %v", name, m.BasePositionPct)
		}
		if m.TrailingDistanceBps < 0 {
			return fmt.Errorf("mode %s: trailing_distance_bps must be >= 0, got %v", name, m.TrailingDistanceBps)
		}
	}

	if c.Regime.Alpha < 0 || c.Regime.Alpha > 0.5 {
		return fmt.Errorf("regime.alpha must be in [0, 0.5], got %v", c.Regime.Alpha)
	}
	if c.Sizing.MinPositionPct <= 0 || c.Sizing.MaxPositionPct < c.Sizing.MinPositionPct {
		return fmt.Errorf("sizing bounds invalid: min_position_pct=%v max_position_pct=%v",
			c.Sizing.MinPositionPct, c.Sizing.MaxPositionPct)
	}
	if c.Sizing.MinTradeUSD < 0 || c.Sizing.MaxTradeUSD < c.Sizing.MinTradeUSD {
		return fmt.Errorf("sizing trade bounds invalid: min_trade_usd=%v max_trade_usd=%v",
			c.Sizing.MinTradeUSD, c.Sizing.MaxTradeUSD)
	}

	switch c.Execution.SlippageModel {
	case "linear", "amm":
	default:
		return fmt.Errorf("execution.slippage_model must be linear or amm, got %q", c.Execution.SlippageModel)
	}
	if c.Execution.MaxPoolFraction <= 0 || c.Execution.MaxPoolFraction > 1 {
		return fmt.Errorf("execution.max_pool_fraction must be in (0, 1], got %v", c.Execution.MaxPoolFraction)
	}
	if c.Execution.LatencyBaseMs < 0 || c.Execution.LatencyJitterMs < 0 {
		return fmt.Errorf("execution latency values must be >= 0")
	}

	if c.Lifecycle.HazardThreshold <= 0 || c.Lifecycle.HazardThreshold > 1 {
		return fmt.Errorf("lifecycle.hazard_threshold must be in (0, 1], got %v", c.Lifecycle.HazardThreshold)
	}
	if c.Lifecycle.TrailingMaxDistanceBps < c.Lifecycle.TrailingMinDistanceBps {
		return fmt.Errorf("lifecycle trailing distance bounds invalid: min=%v max=%v",
			c.Lifecycle.TrailingMinDistanceBps, c.Lifecycle.TrailingMaxDistanceBps)
	}
	if c.Lifecycle.RetryMaxAttempts < 0 {
		return fmt.Errorf("lifecycle.retry_max_attempts must be >= 0, got %d", c.Lifecycle.RetryMaxAttempts)
	}
	if c.Lifecycle.RetrySizeDecay <= 0 || c.Lifecycle.RetrySizeDecay >= 1 {
		return fmt.Errorf("lifecycle.retry_size_decay must be in (0, 1), got %v", c.Lifecycle.RetrySizeDecay)
	}
	if c.Lifecycle.RetryFeeGrowth < 1 {
		return fmt.Errorf("lifecycle.retry_fee_growth must be >= 1, got %v", c.Lifecycle.RetryFeeGrowth)
	}

	if c.Risk.MaxOpenPositions <= 0 {
		return fmt.Errorf("risk.max_open_positions must be > 0, got %d", c.Risk.MaxOpenPositions)
	}
	if c.Risk.MaxDailyLossPct <= 0 || c.Risk.MaxDrawdownPct <= 0 {
		return fmt.Errorf("risk loss limits must be > 0")
	}

	return nil
}
