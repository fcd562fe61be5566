// Package fingerprint derives the short identity string shown on a profile.
//
// The value is a weak identity marker, not a signature: it is a truncated
// SHA-256 of lower-cased free text, so whitespace or spelling differences in
// the same logical name produce a different fingerprint.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Prefix starts every non-empty fingerprint.
	Prefix = "tru-"
	// HexLen is the number of digest hex characters kept (128 bits).
	HexLen = 32

	separator = "-"
)

// Fields are the profile inputs that take part in the fingerprint.
type Fields struct {
	GivenName  string
	FamilyName string
	Email      string
	BirthDate  string
}

// Derive returns Prefix followed by the first HexLen hex characters of
// sha256(lower(given-family-email-birth)). It returns "" when given name,
// family name and email are all empty, whatever the birth date.
func Derive(f Fields) string {
	if f.GivenName == "" && f.FamilyName == "" && f.Email == "" {
		return ""
	}

	msg := strings.ToLower(strings.Join([]string{f.GivenName, f.FamilyName, f.Email, f.BirthDate}, separator))
	sum := sha256.Sum256([]byte(msg))

	return Prefix + hex.EncodeToString(sum[:])[:HexLen]
}

// Valid reports whether s has the shape Derive produces for a non-empty profile.
func Valid(s string) bool {
	if len(s) != len(Prefix)+HexLen || !strings.HasPrefix(s, Prefix) {
		return false
	}
	for _, c := range s[len(Prefix):] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
