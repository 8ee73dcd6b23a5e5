// Package feed reads trade events from line-delimited JSON, either from a
// local file or from a websocket tail. Malformed lines are surfaced as items
// carrying the parse error, never silently dropped: the pipeline turns them
// into skip decisions so event counts always reconcile.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-copytrade-lab/internal/domain"
)

// Validation errors for feed lines.
var (
	ErrBadTimestamp = errors.New("timestamp must be > 0")
	ErrBadWallet    = errors.New("wallet is not a valid on-curve address")
	ErrBadMint      = errors.New("mint is not a valid base58 address")
	ErrBadSide      = errors.New("side must be buy or sell")
	ErrBadPrice     = errors.New("price must be > 0")
	ErrBadSize      = errors.New("size_usd must be > 0")
)

// Item is one feed element: a parsed event, or the error that made the line
// unusable. Line is always set.
type Item struct {
	Event *domain.TradeEvent
	Line  int
	Err   error
}

// wireEvent is the on-the-wire form of one feed line.
type wireEvent struct {
	TimestampMs int64   `json:"ts_ms"`
	Wallet      string  `json:"wallet"`
	Mint        string  `json:"mint"`
	Side        string  `json:"side"`
	Price       float64 `json:"price"`
	SizeUSD     float64 `json:"size_usd"`
	Mode        string  `json:"mode,omitempty"`
}

// parseLine decodes and validates one feed line into a trade event.
func parseLine(data []byte, line int) (*domain.TradeEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}

	ev := &domain.TradeEvent{
		TimestampMs: w.TimestampMs,
		Wallet:      w.Wallet,
		Mint:        w.Mint,
		Side:        domain.Side(w.Side),
		Price:       w.Price,
		SizeUSD:     w.SizeUSD,
		Mode:        w.Mode,
		Line:        line,
	}
	if err := validateEvent(ev); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return ev, nil
}

// validateEvent enforces the feed contract. Wallets must be on-curve ed25519
// public keys; mints may be off-curve (program-derived addresses) so only
// the base58 32-byte shape is checked.
func validateEvent(ev *domain.TradeEvent) error {
	if ev.TimestampMs <= 0 {
		return ErrBadTimestamp
	}
	if !isOnCurveAddress(ev.Wallet) {
		return ErrBadWallet
	}
	if !isBase58Address(ev.Mint) {
		return ErrBadMint
	}
	if !ev.Side.IsValid() {
		return ErrBadSide
	}
	if ev.Price <= 0 {
		return ErrBadPrice
	}
	if ev.SizeUSD <= 0 {
		return ErrBadSize
	}
	return nil
}

// isBase58Address reports whether s decodes to a 32-byte value.
func isBase58Address(s string) bool {
	raw, err := base58.Decode(s)
	return err == nil && len(raw) == 32
}

// isOnCurveAddress reports whether s is a 32-byte base58 value that decodes
// to a point on the ed25519 curve.
func isOnCurveAddress(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
