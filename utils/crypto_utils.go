package utils

import (
	"crypto"
	_ "crypto/sha256"
)

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	newhash := crypto.SHA256
	pssh := newhash.New()
	pssh.Write(msg)
	return pssh.Sum(nil)
}

// SHA256Hex hashes message using SHA256 and returns the digest in lowercase hex.
func SHA256Hex(msg []byte) string {
	return BytesToHex(SHA256(msg))
}
