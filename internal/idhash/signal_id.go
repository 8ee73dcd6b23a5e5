package idhash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// ComputeSignalID computes a deterministic signal_id using SHA256.
// Formula: SHA256(wallet|mint|side|timestamp_ms|line)
// Returns hex-encoded hash (64 characters).
func ComputeSignalID(wallet, mint, side string, timestampMs int64, line int) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%d", wallet, mint, side, timestampMs, line)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeChildOrderID computes the deterministic child order id for one
// attempt of a partial-fill retry chain.
// Formula: SHA256(parent_id|attempt)
func ComputeChildOrderID(parentID string, attempt int) string {
	data := fmt.Sprintf("%s|%d", parentID, attempt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Jitter derives a stable pseudo-jitter in [0, modulo] from an id.
// Uses the first 8 bytes of SHA256(id) interpreted big-endian. Never reads
// the clock; the same id always yields the same jitter.
func Jitter(id string, modulo int64) int64 {
	if modulo <= 0 {
		return 0
	}
	hash := sha256.Sum256([]byte(id))
	v := binary.BigEndian.Uint64(hash[:8])
	return int64(v % uint64(modulo+1))
}
