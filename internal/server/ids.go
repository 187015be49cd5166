package server

import (
	"crypto/rand"
	"encoding/hex"
)

// newID returns a 32-char hex identifier, used for image IDs and session
// tokens.
func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
