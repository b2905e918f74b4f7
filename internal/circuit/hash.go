package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainCircuit is the domain prefix for circuit content hashes.
// The version suffix allows a future algorithm migration.
const DomainCircuit = "qx/circuit/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed identity of c. Circuits that differ
// only in instruction pointer-ness or in alias spellings of a gate hash the
// same; any change to a parameter's bit pattern changes the hash.
func Hash(c Circuit) (string, error) {
	form, err := canonicalForm(c)
	if err != nil {
		return "", fmt.Errorf("Hash: %w", err)
	}
	data, err := MarshalCanonical(form)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCircuit, data), nil
}
