// Package digest computes the optional content digest carried in the
// chunk header's reserved hash field. The field is a hook, not a mandate:
// a sender may leave it at all-zero, and a receiver must treat that as "no
// digest was provided" rather than as a verification failure.
package digest

import "golang.org/x/crypto/blake2b"

// Size is the number of bytes the wire header reserves for the digest.
const Size = 32

// Compute returns the BLAKE2b-256 digest of payload. BLAKE2b-256 is chosen
// because it produces exactly the 32 bytes the header reserves without any
// key material, which fits a content-integrity hook that must stay clear of
// encryption or authentication (both out of scope for this protocol).
func Compute(payload []byte) [Size]byte {
	return blake2b.Sum256(payload)
}

// Provided reports whether a header's hash field looks like it was
// populated by Compute, as opposed to left at the zero value a sender that
// opted out of the hook leaves behind.
func Provided(hash [Size]byte) bool {
	for _, b := range hash {
		if b != 0 {
			return true
		}
	}
	return false
}

// Verify reports whether hash matches the digest of payload. Callers
// should check Provided first if they need to distinguish "no digest was
// ever computed" from "digest mismatch".
func Verify(hash [Size]byte, payload []byte) bool {
	return Compute(payload) == hash
}
