package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize         = 16
	pbkdf2Iterations = 200_000
	derivedKeySize   = 32
	hashSeparator    = "$"
)

// HashPassword returns "<salt hex>$<digest hex>". The salt's hex text, not its
// raw bytes, is fed to PBKDF2 so stored hashes stay compatible with existing
// records.
func HashPassword(password string) (string, error) {
	salt, err := common.MakeRandHexString(saltSize)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return salt + hashSeparator + derive(password, salt), nil
}

// VerifyPassword reports whether password matches stored. Malformed stored
// values never match.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := strings.Cut(stored, hashSeparator)
	if !ok || salt == "" || digest == "" {
		return false
	}
	candidate := derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, derivedKeySize, sha256.New)
	return hex.EncodeToString(key)
}
