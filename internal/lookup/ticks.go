package lookup

import (
	"errors"

	"solana-copytrade-lab/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoTickData = errors.New("no tick data available")
)

// PriceAt returns the price at or before the target timestamp.
// If no tick exists before the target, the first available price is used.
// Returns ErrNoTickData if the slice is empty.
func PriceAt(target int64, ticks []*domain.PriceTick) (float64, error) {
	if len(ticks) == 0 {
		return 0, ErrNoTickData
	}

	// Find closest tick at or before target
	for i := len(ticks) - 1; i >= 0; i-- {
		if ticks[i].TimestampMs <= target {
			return ticks[i].Price, nil
		}
	}

	// If no tick before target, use first available
	return ticks[0].Price, nil
}

// HazardAt returns the hazard score at or before the target timestamp.
// Returns 0 if no hazard point exists at or before the target (no signal
// means no emergency exit).
func HazardAt(target int64, points []*domain.HazardPoint) float64 {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].TimestampMs <= target {
			return points[i].Score
		}
	}
	return 0
}
