package ephemeral

import "math/big"

// Sealer seals and opens a signer's own secret nonce halves for at-rest
// storage, keyed off that signer's FROST secret key share.
type Sealer struct {
	box *box
}

// NewSealer derives a Sealer's key from secretShare via DeriveSealingKey.
func NewSealer(secretShare *big.Int) (*Sealer, error) {
	key, err := DeriveSealingKey(secretShare)
	if err != nil {
		return nil, err
	}
	return &Sealer{box: newBox(key)}, nil
}

// Seal encrypts a scalar's big-endian bytes for storage.
func (s *Sealer) Seal(scalar *big.Int) ([]byte, error) {
	return s.box.encrypt(scalar.Bytes())
}

// Open decrypts and decodes a scalar previously sealed with Seal.
func (s *Sealer) Open(ciphertext []byte) (*big.Int, error) {
	plaintext, err := s.box.decrypt(ciphertext)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(plaintext), nil
}
