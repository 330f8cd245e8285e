package ephemeral

import (
	"math/big"
	"testing"
)

func TestSealerRoundTrip(t *testing.T) {
	share := big.NewInt(123456789)
	sealer, err := NewSealer(share)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	secret := big.NewInt(987654321)
	sealed, err := sealer.Seal(secret)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	opened, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Cmp(secret) != 0 {
		t.Fatalf("round trip mismatch: got %s, want %s", opened, secret)
	}
}

func TestSealerRejectsTamperedCiphertext(t *testing.T) {
	sealer, err := NewSealer(big.NewInt(42))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := sealer.Seal(big.NewInt(7))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF

	if _, err := sealer.Open(sealed); err == nil {
		t.Fatal("expected decryption failure on tampered ciphertext")
	}
}

func TestSealerDifferentShareCannotOpen(t *testing.T) {
	sealerA, err := NewSealer(big.NewInt(111))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	sealerB, err := NewSealer(big.NewInt(222))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := sealerA.Seal(big.NewInt(7))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := sealerB.Open(sealed); err == nil {
		t.Fatal("expected decryption failure with the wrong signer's key")
	}
}

func TestDeriveSealingKeyRejectsEmptyShare(t *testing.T) {
	if _, err := DeriveSealingKey(big.NewInt(0)); err == nil {
		t.Fatal("expected error deriving a sealing key from a zero share")
	}
}
