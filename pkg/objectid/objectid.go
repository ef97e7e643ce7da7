// Package objectid generates 24-hex-character object identifiers for
// document keys: a 4-byte big-endian unix timestamp followed by 8 random
// bytes. Identifiers sort roughly by creation time and are safe to mint
// concurrently from any goroutine.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

// Len is the length of the hex-encoded identifier.
const Len = 24

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// New returns a fresh 24-character lowercase hex identifier.
func New() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("objectid: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// IsValid reports whether s is a well-formed object identifier. Malformed
// identifiers are not rejected by the store layer; they simply match no
// document. This helper exists for callers that want to fail fast.
func IsValid(s string) bool {
	return idPattern.MatchString(s)
}

// Timestamp extracts the creation time embedded in an identifier. The zero
// time is returned for malformed input.
func Timestamp(s string) time.Time {
	if !IsValid(s) {
		return time.Time{}
	}
	raw, _ := hex.DecodeString(s[:8])
	return time.Unix(int64(binary.BigEndian.Uint32(raw)), 0).UTC()
}
