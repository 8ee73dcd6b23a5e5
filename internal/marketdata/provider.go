// Package marketdata supplies token snapshots and wallet profiles to the
// decision engine. Providers are pure lookups with an explicit "missing"
// outcome; a missing record is never an error.
package marketdata

import (
	"context"

	"solana-copytrade-lab/internal/domain"
)

// Provider is the market context lookup consumed by the pipeline.
type Provider interface {
	// Snapshot returns the token snapshot for a mint, or ok=false when the
	// snapshot is missing.
	Snapshot(ctx context.Context, mint string) (*domain.TokenSnapshot, bool, error)

	// Profile returns the wallet profile for a wallet, or ok=false when the
	// profile is missing.
	Profile(ctx context.Context, wallet string) (*domain.WalletProfile, bool, error)
}
