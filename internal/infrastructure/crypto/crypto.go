package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

const nonceLength = 12

var errCiphertextTooShort = errors.New("ciphertext shorter than nonce")

// Cryptor encrypts PII with AES-256-GCM and hashes it with HMAC-SHA256 for
// exact-match search columns. Implements usecase.Cryptor.
type Cryptor struct {
	aesKey  []byte
	hmacKey []byte
}

// New creates a Cryptor from base64-encoded keys. The AES key must be 32
// bytes. An empty HMAC key falls back to the AES key.
func New(aesKeyBase64, hmacKeyBase64 string) (*Cryptor, error) {
	aesKey, err := base64.StdEncoding.DecodeString(aesKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode AES key: %w", err)
	}

	if len(aesKey) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(aesKey))
	}

	hmacKey := aesKey
	if hmacKeyBase64 != "" {
		hmacKey, err = base64.StdEncoding.DecodeString(hmacKeyBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HMAC key: %w", err)
		}
	}

	return &Cryptor{aesKey: aesKey, hmacKey: hmacKey}, nil
}

// Encrypt returns base64(nonce || ciphertext) for plaintext.
func (c *Cryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	if len(raw) < nonceLength {
		return "", errCiphertextTooShort
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, raw[:nonceLength], raw[nonceLength:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plain), nil
}

// Hash returns the base64 HMAC-SHA256 digest of value.
func (c *Cryptor) Hash(value string) string {
	if value == "" {
		return ""
	}

	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write([]byte(value))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Cryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.aesKey)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
