// Package crypt provides symmetric encryption of small payloads stored at rest.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/bitmap357/hospital-test/libs/errors"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// ErrShortCiphertext is returned when decrypting data too short to contain a nonce.
var ErrShortCiphertext = errors.New("crypt: ciphertext too short")

// Encrypter encrypts a plaintext payload.
type Encrypter interface {
	Encrypt(plain []byte) ([]byte, error)
}

// Decrypter decrypts a payload produced by the matching Encrypter.
type Decrypter interface {
	Decrypt(ciphered []byte) ([]byte, error)
}

// EncrypterDecrypter combines both directions of the boundary.
type EncrypterDecrypter interface {
	Encrypter
	Decrypter
}

// GenerateKey returns a new random key of KeySize bytes.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Trace(err)
	}
	return key, nil
}

type aesGCM struct {
	aead cipher.AEAD
}

// NewAESGCM returns an EncrypterDecrypter sealing payloads with AES-256-GCM
// under the provided key. The random nonce is prepended to the ciphertext.
func NewAESGCM(key []byte) (EncrypterDecrypter, error) {
	if len(key) != KeySize {
		return nil, errors.Errorf("crypt: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &aesGCM{aead: aead}, nil
}

func (c *aesGCM) Encrypt(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Trace(err)
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *aesGCM) Decrypt(ciphered []byte) ([]byte, error) {
	if len(ciphered) < c.aead.NonceSize() {
		return nil, errors.Trace(ErrShortCiphertext)
	}
	nonce, data := ciphered[:c.aead.NonceSize()], ciphered[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, data, nil)
	return plain, errors.Trace(err)
}
