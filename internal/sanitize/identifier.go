package sanitize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// MaxIdentifierLength bounds identifiers used as file name components.
	MaxIdentifierLength = 64

	// HashSuffixLength is the length of the hash suffix added to truncated identifiers.
	// Format: _<8-char-hash> = 9 characters total
	HashSuffixLength = 9

	// DefaultIdentifier is used when sanitization produces an empty result.
	DefaultIdentifier = "default"
)

// Identifier turns s into a safe file name component.
//
// Rules applied:
//   - Converts to lowercase
//   - Keeps a-z, 0-9, '-' and '_'; replaces everything else with '_'
//   - Collapses repeated underscores and trims them from both ends
//   - Truncates to MaxIdentifierLength with a hash suffix if too long
//   - Returns DefaultIdentifier if the result would be empty
//
// Examples:
//
//	"orders-api"      -> "orders-api"
//	"Billing/Worker"  -> "billing_worker"
//	"" or "../.."     -> "default"
func Identifier(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")

	if out == "" {
		return DefaultIdentifier
	}
	if len(out) > MaxIdentifierLength {
		out = truncateWithHash(out)
	}
	return out
}

// truncateWithHash keeps the identifier unique after truncation.
func truncateWithHash(s string) string {
	hash := sha256.Sum256([]byte(s))
	suffix := "_" + hex.EncodeToString(hash[:])[:8]

	truncated := strings.TrimRight(s[:MaxIdentifierLength-HashSuffixLength], "_")
	return truncated + suffix
}
