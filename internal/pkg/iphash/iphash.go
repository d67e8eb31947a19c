// Package iphash provides one-way hashing of client IP addresses.
// Raw IPs are never persisted; only the digest produced here is stored.
package iphash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 hex digest (64 characters) of an IP address.
// An empty input yields an empty string so optional fields stay NULL.
func Hash(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}
