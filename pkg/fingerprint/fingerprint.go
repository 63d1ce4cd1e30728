// Package fingerprint derives stable content keys for cached upstream responses.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Prefix namespaces every key produced by this package.
const Prefix = "storefront"

// CalculateHash computes the SHA-256 hex digest of content.
func CalculateHash(content string) string {
	hash := sha256.Sum256([]byte(content))

	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key: "storefront:<kind>:<sha256 of parts>".
func Key(kind string, parts ...string) string {
	return fmt.Sprintf("%s:%s:%s", Prefix, kind, CalculateHash(strings.Join(parts, "\x1f")))
}
