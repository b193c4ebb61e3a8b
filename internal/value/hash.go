package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainFingerprint is the domain-separation prefix for value fingerprints,
// mirroring the teacher's hashWithDomain pattern (internal/ir/hash.go):
// SHA256(domain + 0x00 + data). The version suffix allows the encoding to
// evolve without silently colliding with fingerprints from an older
// encoder.
const DomainFingerprint = "bitemporal/fingerprint/v1"

// Fingerprint computes the deterministic hex digest of a value tuple, per
// spec §4.1 and §6 ("Lowercase hex SHA-256 of the canonical encoding of
// the value tuple"). Two rows with equal value tuples always produce the
// same 64-character lowercase hex digest; the probability of an unequal
// tuple colliding is the SHA-256 collision probability, cryptographically
// negligible.
func Fingerprint(t Tuple) (string, error) {
	canonical, err := MarshalCanonical(t)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainFingerprint))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustFingerprint is like Fingerprint but panics on error. Use only in
// tests or when the tuple is known to be well-formed.
func MustFingerprint(t Tuple) string {
	fp, err := Fingerprint(t)
	if err != nil {
		panic(err)
	}
	return fp
}
