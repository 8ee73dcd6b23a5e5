package domain

// Reason is the closed enumeration of reject and failure reasons shared by
// the decision, simulation and lifecycle stages. Producers must reference
// these by symbol; adding a value is a deliberate contract change.
type Reason string

const (
	ReasonNone Reason = ""

	// Missing context
	ReasonMissingSnapshot Reason = "missing_snapshot"
	ReasonMissingProfile  Reason = "missing_wallet_profile"

	// Security flags
	ReasonHoneypot      Reason = "honeypot_flag"
	ReasonMintAuthority Reason = "mint_authority_flag"
	ReasonFreezeAuth    Reason = "freeze_authority_flag"

	// Market gates
	ReasonLiquidityBelowMin  Reason = "liquidity_below_min"
	ReasonVolumeBelowMin     Reason = "volume_below_min"
	ReasonSpreadAboveMax     Reason = "spread_above_max"
	ReasonHolderConcAboveMax Reason = "holder_concentration_above_max"

	// Wallet gates
	ReasonWalletTradesBelowMin  Reason = "wallet_trades_below_min"
	ReasonWalletWinrateBelowMin Reason = "wallet_winrate_below_min"
	ReasonWalletROIBelowMin     Reason = "wallet_roi_below_min"

	// Expected value and sizing
	ReasonEVBelowThreshold Reason = "ev_below_threshold"
	ReasonSizeBelowMinimum Reason = "size_below_minimum"

	// Portfolio risk gates
	ReasonKillSwitchActive Reason = "kill_switch_active"
	ReasonMaxOpenPositions Reason = "max_open_positions"
	ReasonExposureCap      Reason = "exposure_cap_exceeded"
	ReasonMintExposureCap  Reason = "mint_exposure_cap_exceeded"

	// Simulation outcomes
	ReasonTTLExpired      Reason = "ttl_expired"
	ReasonSlippageTooHigh Reason = "slippage_too_high"
	ReasonZeroLiquidity   Reason = "zero_liquidity"
	ReasonZeroSize        Reason = "zero_size"

	// Input validation
	ReasonMalformedEvent Reason = "malformed_event"
)

// allReasons is the authoritative membership set for IsValid.
var allReasons = map[Reason]struct{}{
	ReasonMissingSnapshot:       {},
	ReasonMissingProfile:        {},
	ReasonHoneypot:              {},
	ReasonMintAuthority:         {},
	ReasonFreezeAuth:            {},
	ReasonLiquidityBelowMin:     {},
	ReasonVolumeBelowMin:        {},
	ReasonSpreadAboveMax:        {},
	ReasonHolderConcAboveMax:    {},
	ReasonWalletTradesBelowMin:  {},
	ReasonWalletWinrateBelowMin: {},
	ReasonWalletROIBelowMin:     {},
	ReasonEVBelowThreshold:      {},
	ReasonSizeBelowMinimum:      {},
	ReasonKillSwitchActive:      {},
	ReasonMaxOpenPositions:      {},
	ReasonExposureCap:           {},
	ReasonMintExposureCap:       {},
	ReasonTTLExpired:            {},
	ReasonSlippageTooHigh:       {},
	ReasonZeroLiquidity:         {},
	ReasonZeroSize:              {},
	ReasonMalformedEvent:        {},
}

// String returns the string representation of Reason.
func (r Reason) String() string {
	return string(r)
}

// IsValid checks if the reason is a member of the closed enumeration.
// ReasonNone is not a valid reject reason.
func (r Reason) IsValid() bool {
	_, ok := allReasons[r]
	return ok
}
