package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if hash == "correct-horse-battery" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected PHC argon2id format, got %q", hash)
	}

	if !VerifyPassword("correct-horse-battery", hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
	if !VerifyPassword("same-password", h1) || !VerifyPassword("same-password", h2) {
		t.Error("both hashes should verify independently")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=4$onlyfourparts",
		"$argon2id$v=19$m=bad,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!invalid-base64!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!invalid-base64!!",
		"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		// Parameters that parse but that no hashing call could produce.
		// t=0 and p=0 would panic inside argon2 if they got that far.
		"$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=4294967295,t=3,p=4$c2FsdA$aGFzaA",
	}

	for _, h := range malformed {
		if VerifyPassword("anything", h) {
			t.Errorf("malformed hash %q must verify false", h)
		}
	}
}
