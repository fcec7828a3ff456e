package crypto

import (
	"strings"
	"testing"
)

func testHasher() *Hasher {
	return NewHasher(HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHash(t *testing.T) {
	hash, err := NewHasher(DefaultHashParams()).Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerifyCorrect(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if !h.Verify("my-secure-password", hash) {
		t.Error("Verify() returned false for correct password")
	}
}

func TestVerifyWrong(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if h.Verify("wrong-password", hash) {
		t.Error("Verify() returned true for wrong password")
	}
}

func TestVerifyUsesEmbeddedParams(t *testing.T) {
	old := testHasher()
	hash, err := old.Hash("rotate-me")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// A hasher with different parameters must still verify older encodings.
	current := NewHasher(HashParams{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if !current.Verify("rotate-me", hash) {
		t.Error("Verify() rejected a hash produced with older parameters")
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := testHasher()

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same input (salt should differ)")
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := testHasher()
	cases := []string{
		"",
		"invalid-hash-format",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=0,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	}

	for _, encoded := range cases {
		if h.Verify("password", encoded) {
			t.Errorf("Verify() matched malformed encoding %q", encoded)
		}
	}
}
