package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerKey returns a filesystem-safe namespace for objects owned by a profile.
// Only the first 16 bytes of the digest are kept.
func OwnerKey(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:16])
}
