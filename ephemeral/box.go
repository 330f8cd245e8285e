package ephemeral

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// box symmetrically seals and opens byte slices under a single key, the
// same minimal shape the teacher's ephemeral package used its ECDH box
// for, just keyed differently (see key.go).
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

// encrypt seals plaintext with a fresh random nonce, prepended to the
// ciphertext.
func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

// decrypt opens ciphertext produced by encrypt. It fails closed: any
// tampering, truncation, or wrong key produces the same error rather than
// partial output.
func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 24 {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}
	var nonce [24]byte
	copy(nonce[:], ciphertext[:24])

	plaintext, ok := secretbox.Open(nil, ciphertext[24:], &nonce, &b.key)
	if !ok {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}
	return plaintext, nil
}
