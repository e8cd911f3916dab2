// Package codec encrypts chat messages before they are written to session
// storage. Ciphertext is AES-256-GCM with the nonce prepended, encoded as
// URL-safe base64.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"neurochat/internal/logger"
)

// KeySize is the raw key length in bytes.
const KeySize = 32

var (
	// ErrEncode is returned by Seal when encryption fails.
	ErrEncode = errors.New("message encryption failed")
	// ErrDecode is returned by Open for ciphertext that cannot be decrypted.
	ErrDecode = errors.New("message decryption failed")
	// ErrInvalidKey is returned by ParseKey for keys of the wrong shape.
	ErrInvalidKey = errors.New("invalid encryption key")
)

// Codec is the process-wide message codec.
type Codec struct {
	aead cipher.AEAD
}

// New builds a codec from a raw 32-byte key.
func New(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Codec{aead: gcm}, nil
}

// FromConfig builds a codec from the configured key. An empty or unusable
// key is replaced by a freshly generated one, which is logged so the
// operator can persist it; messages sealed with it do not survive a restart.
func FromConfig(encoded string) (*Codec, error) {
	if encoded != "" {
		key, err := ParseKey(encoded)
		if err == nil {
			return New(key)
		}
		logger.Warn("invalid ENCRYPTION_KEY, generating a new one", "err", err)
	}

	key, err := NewKey()
	if err != nil {
		return nil, err
	}
	logger.Warn("generated new encryption key", "ENCRYPTION_KEY", EncodeKeyCompact(key))
	logger.Warn("IMPORTANT: save this key to your .env file as ENCRYPTION_KEY")
	return New(key)
}

// NewKey returns a random key.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return key, nil
}

// EncodeKeyCompact renders a key as URL-safe base64 without padding.
func EncodeKeyCompact(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

// ParseKey decodes a URL-safe base64 key, restoring stripped padding first.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if rem := len(encoded) % 4; rem != 0 {
		encoded += strings.Repeat("=", 4-rem)
	}
	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

// Seal encrypts plaintext.
func (c *Codec) Seal(plaintext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", fmt.Errorf("%w: codec not initialized", ErrEncode)
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generating nonce: %v", ErrEncode, err)
	}
	// [nonce][ciphertext+tag]
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (c *Codec) Open(ciphertext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", fmt.Errorf("%w: codec not initialized", ErrDecode)
	}
	raw, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecode)
	}
	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(plaintext), nil
}

// Encrypt is the fail-soft form of Seal: on any error the plaintext is
// returned unchanged. Use EncryptReport when the caller must know which one
// it got.
func (c *Codec) Encrypt(plaintext string) string {
	sealed, err := c.Seal(plaintext)
	if err != nil {
		logger.Warn("encryption error, storing plaintext", "err", err)
		return plaintext
	}
	return sealed
}

// EncryptReport is Encrypt plus whether encryption actually happened.
func (c *Codec) EncryptReport(plaintext string) (string, bool) {
	sealed, err := c.Seal(plaintext)
	if err != nil {
		logger.Warn("encryption error, storing plaintext", "err", err)
		return plaintext, false
	}
	return sealed, true
}

// Decrypt is the fail-soft form of Open: on any error the input is returned
// unchanged.
func (c *Codec) Decrypt(ciphertext string) string {
	plaintext, err := c.Open(ciphertext)
	if err != nil {
		logger.Warn("decryption error, returning input unchanged", "err", err)
		return ciphertext
	}
	return plaintext
}
