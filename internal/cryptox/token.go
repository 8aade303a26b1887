package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of a raw reset token. A fast
// digest is sufficient here, unlike for passwords: raw tokens carry 256
// bits of CSPRNG entropy, so offline guessing is infeasible. stored
// password digests must always go through Derive instead.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
