package crypt

import (
	"testing"

	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/test"
)

func TestAESGCMRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	test.OK(t, err)
	box, err := NewAESGCM(key)
	test.OK(t, err)

	plain := []byte("Patient reports improvement on the new dosage.")
	ciphered, err := box.Encrypt(plain)
	test.OK(t, err)
	test.Assert(t, string(ciphered) != string(plain), "ciphertext must differ from plaintext")

	out, err := box.Decrypt(ciphered)
	test.OK(t, err)
	test.Equals(t, plain, out)
}

func TestAESGCMUniqueNonce(t *testing.T) {
	key, err := GenerateKey()
	test.OK(t, err)
	box, err := NewAESGCM(key)
	test.OK(t, err)

	a, err := box.Encrypt([]byte("same"))
	test.OK(t, err)
	b, err := box.Encrypt([]byte("same"))
	test.OK(t, err)
	test.Assert(t, string(a) != string(b), "two encryptions of the same plaintext must differ")
}

func TestAESGCMBadKeySize(t *testing.T) {
	_, err := NewAESGCM(make([]byte, 16))
	test.Assert(t, err != nil, "expected error for short key")
}

func TestAESGCMWrongKey(t *testing.T) {
	k1, err := GenerateKey()
	test.OK(t, err)
	k2, err := GenerateKey()
	test.OK(t, err)
	b1, err := NewAESGCM(k1)
	test.OK(t, err)
	b2, err := NewAESGCM(k2)
	test.OK(t, err)

	ciphered, err := b1.Encrypt([]byte("secret"))
	test.OK(t, err)
	_, err = b2.Decrypt(ciphered)
	test.Assert(t, err != nil, "decrypt with the wrong key must fail")
}

func TestAESGCMShortCiphertext(t *testing.T) {
	key, err := GenerateKey()
	test.OK(t, err)
	box, err := NewAESGCM(key)
	test.OK(t, err)

	_, err = box.Decrypt([]byte{0x01, 0x02})
	test.Equals(t, ErrShortCiphertext, errors.Cause(err))
}
