// Package cryptox hashes account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/typetutor/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword derives a key from password under a fresh random salt.
func HashPassword(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	return DeriveKey(password, salt), salt
}

func VerifyPassword(password, hash, salt []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(DeriveKey(password, salt), hash) == 1
}
