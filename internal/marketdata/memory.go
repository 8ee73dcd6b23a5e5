package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"solana-copytrade-lab/internal/domain"
)

// MemoryProvider is a fixture-backed provider. All records are loaded up
// front; lookups never touch I/O, which keeps the core deterministic.
type MemoryProvider struct {
	snapshots map[string]*domain.TokenSnapshot
	profiles  map[string]*domain.WalletProfile
}

// NewMemoryProvider creates an empty fixture provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		snapshots: make(map[string]*domain.TokenSnapshot),
		profiles:  make(map[string]*domain.WalletProfile),
	}
}

// PutSnapshot registers a token snapshot keyed by mint.
func (p *MemoryProvider) PutSnapshot(s *domain.TokenSnapshot) {
	p.snapshots[s.Mint] = s
}

// PutProfile registers a wallet profile keyed by wallet address.
func (p *MemoryProvider) PutProfile(w *domain.WalletProfile) {
	p.profiles[w.Wallet] = w
}

// Snapshots returns every registered snapshot, in no particular order.
func (p *MemoryProvider) Snapshots() []*domain.TokenSnapshot {
	out := make([]*domain.TokenSnapshot, 0, len(p.snapshots))
	for _, s := range p.snapshots {
		out = append(out, s)
	}
	return out
}

// Snapshot implements Provider.
func (p *MemoryProvider) Snapshot(_ context.Context, mint string) (*domain.TokenSnapshot, bool, error) {
	s, ok := p.snapshots[mint]
	return s, ok, nil
}

// Profile implements Provider.
func (p *MemoryProvider) Profile(_ context.Context, wallet string) (*domain.WalletProfile, bool, error) {
	w, ok := p.profiles[wallet]
	return w, ok, nil
}

// LoadSnapshotFile reads a JSON array of token snapshots into the provider.
func (p *MemoryProvider) LoadSnapshotFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot fixture %s: %w", path, err)
	}

	var snapshots []*domain.TokenSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return fmt.Errorf("parse snapshot fixture %s: %w", path, err)
	}

	for _, s := range snapshots {
		p.PutSnapshot(s)
	}
	return nil
}

// LoadProfileFile reads a JSON array of wallet profiles into the provider.
func (p *MemoryProvider) LoadProfileFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile fixture %s: %w", path, err)
	}

	var profiles []*domain.WalletProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("parse profile fixture %s: %w", path, err)
	}

	for _, w := range profiles {
		p.PutProfile(w)
	}
	return nil
}

var _ Provider = (*MemoryProvider)(nil)
