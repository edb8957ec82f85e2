package identity

import "testing"

func TestGenerateProducesDistinctKeypairs(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.PublicKey == b.PublicKey {
		t.Fatal("two independent Generate calls produced the same public key")
	}
	if a.SecretKey.Sign() == 0 {
		t.Fatal("secret key should never be zero")
	}
}

func TestPublicKeyIsDeterministicFunctionOfSecret(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	again := derivePublicKeyHex(kp.SecretKey)
	if again != kp.PublicKey {
		t.Fatalf("derivePublicKeyHex is not deterministic: %s != %s", again, kp.PublicKey)
	}
}
