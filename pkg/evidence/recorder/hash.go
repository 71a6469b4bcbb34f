package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns the hex-encoded SHA-256 of s. The empty string has a
// hash like any other input.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashReply hashes an optional reply. A nil reply hashes to "".
func HashReply(reply *string) string {
	if reply == nil {
		return ""
	}
	return HashText(*reply)
}
