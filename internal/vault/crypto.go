// Package vault implements the local credential subsystem: salted
// password hashing and verification, and account create/authenticate
// operations over a pluggable credential store.
package vault

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dsilva/worklog/internal/common"
)

const (
	// DefaultIterations trades login latency for brute-force resistance.
	// The count is stored with each record so verification stays
	// reproducible if this default changes later.
	DefaultIterations = 200_000

	saltSize = 16 // 128 bits
	keySize  = sha256.Size
)

// CredentialRecord is one stored credential. Immutable once written
// except by full replacement.
type CredentialRecord struct {
	Username   string
	Salt       []byte
	DerivedKey []byte
	Iterations int
}

// HashPassword derives a key from password with PBKDF2-HMAC-SHA256 using
// a fresh random salt and the given iteration count (DefaultIterations
// when iterations <= 0).
func HashPassword(password []byte, iterations int) CredentialRecord {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	salt := common.GenerateRandByteArray(saltSize)
	return CredentialRecord{
		Salt:       salt,
		DerivedKey: pbkdf2.Key(password, salt, iterations, keySize, sha256.New),
		Iterations: iterations,
	}
}

// VerifyPassword recomputes the derived key with the record's salt and
// iteration count and compares it in constant time. Malformed records
// yield false, never an error.
func VerifyPassword(password []byte, rec CredentialRecord) bool {
	if len(rec.Salt) == 0 || len(rec.DerivedKey) == 0 || rec.Iterations <= 0 {
		return false
	}
	candidate := pbkdf2.Key(password, rec.Salt, rec.Iterations, len(rec.DerivedKey), sha256.New)
	return subtle.ConstantTimeCompare(candidate, rec.DerivedKey) == 1
}
