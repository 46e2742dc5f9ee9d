// Package identity derives stable local identifiers from channel-manager
// record IDs. The channel manager exposes 24-hex-character object IDs; the
// local store keys every row by canonical UUID. Deriving the UUID from the
// object ID, rather than minting a fresh one, means repeated sync runs
// address the same local row without a persisted translation table.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// externalIDLength is the length of a well-formed channel-manager object ID.
const externalIDLength = 24

// IsExternalID reports whether s is a well-formed channel-manager object ID:
// exactly 24 hexadecimal characters.
func IsExternalID(s string) bool {
	if len(s) != externalIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// FromExternalID deterministically derives a UUID from a channel-manager
// object ID. The derivation is a pure function: the same object ID always
// yields the same UUID, across runs and process restarts.
//
// The 24 hex characters are extended to 32 by appending the first 8 again,
// then laid out as a version-4-shaped UUID with the RFC 4122 variant bits
// forced, so downstream UUID validation accepts the result.
//
// If the input is not a well-formed object ID, a fresh random UUID is
// returned instead. That fallback is non-reproducible: re-running the sync
// for such a record will mint a different ID each time. Use it only when
// the external ID truly cannot be interpreted.
func FromExternalID(externalID string) uuid.UUID {
	if !IsExternalID(externalID) {
		return uuid.New()
	}

	hex := strings.ToLower(externalID)
	hex32 := hex + hex[:8]

	var b strings.Builder
	b.Grow(36)
	b.WriteString(hex32[0:8])
	b.WriteByte('-')
	b.WriteString(hex32[8:12])
	b.WriteByte('-')
	b.WriteByte('4') // version nibble; hex32[12] is dropped
	b.WriteString(hex32[13:16])
	b.WriteByte('-')
	b.WriteString(variantByte(hex32[16], hex32[17]))
	b.WriteString(hex32[18:20])
	b.WriteByte('-')
	b.WriteString(hex32[20:32])

	// Parse cannot fail: the string is 36 chars of valid hex and dashes.
	id, err := uuid.Parse(b.String())
	if err != nil {
		return uuid.New()
	}
	return id
}

// variantByte interprets the two hex digits as a byte, masks it into the
// RFC 4122 variant range (0x80-0xbf), and renders it back as two hex digits.
func variantByte(hi, lo byte) string {
	v := hexVal(hi)<<4 | hexVal(lo)
	v = v&0x3f | 0x80

	const digits = "0123456789abcdef"
	return string([]byte{digits[v>>4], digits[v&0x0f]})
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	default:
		return int(c-'a') + 10
	}
}
