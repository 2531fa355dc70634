// Package crypto implements the credential store: reversible symmetric
// encryption of user passwords under a process-wide key. Login decrypts the
// stored secret and compares it to the supplied plaintext, so a one-way hash
// cannot be used here.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLen     = 32 // AES-256
	pbkdf2Iter = 4096
)

// Key derivation salt. Fixed: the secret itself comes from configuration and
// is not user-chosen per record.
var kdfSalt = []byte("ems-inventory-credential-store")

var (
	// ErrEmptySecret is returned when a Cipher is constructed without a key.
	ErrEmptySecret = errors.New("crypto: empty encryption secret")
	// ErrDecrypt is returned when ciphertext is malformed or was produced
	// under a different key.
	ErrDecrypt = errors.New("crypto: decryption failed")
)

// Cipher encrypts and decrypts strings using AES-256-GCM with a key derived
// from the configured secret.
type Cipher struct {
	aead cipher.AEAD
}

// New derives an AES-256 key from secret and returns a ready Cipher.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	key := pbkdf2.Key([]byte(secret), kdfSalt, pbkdf2Iter, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext) for the given plaintext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypto: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns ErrDecrypt for malformed input or for
// ciphertext produced under a different key.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrDecrypt
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrDecrypt
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Compare decrypts encrypted and compares it to plaintext in constant time.
func (c *Cipher) Compare(encrypted, plaintext string) bool {
	stored, err := c.Decrypt(encrypted)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) == 1
}
