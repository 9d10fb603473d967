package utils

import (
	"encoding/hex"
	"strings"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

// HexHasLeadingZeros reports whether the hex string starts with n '0' characters.
func HexHasLeadingZeros(digest string, n int) bool {
	if n > len(digest) {
		return false
	}
	return strings.Count(digest[:n], "0") == n
}
