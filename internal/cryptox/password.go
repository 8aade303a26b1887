// Package cryptox implements credential hashing and verification.
//
// Stored credentials use the format "salt:digest" where salt is a random
// per-credential 16-byte value and digest is a PBKDF2-SHA512 derivation of
// the plaintext password, both hex-encoded. The iteration count is fixed so
// existing credentials stay verifiable; bump it only together with a
// rehash-on-login migration.
package cryptox

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltSize is the number of random bytes in a credential salt.
	saltSize = 16

	// iterations is the PBKDF2 work factor. Tuned to tens of milliseconds
	// on commodity hardware.
	iterations = 15000

	// digestSize is the derived key length in bytes.
	digestSize = 64
)

// HashPassword generates a fresh random salt and returns the credential in
// "salt:digest" form. The output length is constant regardless of the
// password length; empty and arbitrary Unicode passwords are valid input.
func HashPassword(password string) (string, error) {
	salt, err := makeSalt()
	if err != nil {
		return "", err
	}
	return salt + ":" + Derive(password, salt), nil
}

// Derive computes the hex-encoded PBKDF2-SHA512 digest of password with the
// given salt. Deterministic for identical (password, salt) pairs.
func Derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, digestSize, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyPassword reports whether password matches the stored "salt:digest"
// credential. Malformed stored values (missing separator, empty salt or
// digest) never match and never cause a panic, so a corrupted credential
// cannot become an authentication bypass or a crash vector. The digest
// comparison is constant-time.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || digest == "" {
		return false
	}

	candidate := Derive(password, salt)

	// ConstantTimeCompare rejects differing lengths before comparing, so a
	// stored digest of unexpected size fails safely.
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

func makeSalt() (string, error) {
	b := make([]byte, saltSize)
	if err := readRand(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
