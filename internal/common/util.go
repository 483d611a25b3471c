package common

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The final string length is twice the size, since each byte expands to two
// hex characters.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop passwords from memory after use. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// FormatTimestamp renders t in TimestampLayout (always UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value written by FormatTimestamp. RFC 3339 input is
// accepted too, for documents written by other tools.
func ParseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
