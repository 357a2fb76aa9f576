package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-0123456789abcdef-0123456789abcdef"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	tok, err := codec.Issue("a@x.com", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if subject != "a@x.com" {
		t.Errorf("subject mismatch: got %q want %q", subject, "a@x.com")
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	// Issue far enough in the past that issuedAt+ttl is behind us.
	tok, err := codec.Issue("a@x.com", time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := NewTokenCodec(testSecret, time.Hour)
	verifier := NewTokenCodec("a-completely-different-secret-key!!!!!!!!", time.Hour)

	tok, err := issuer.Issue("a@x.com", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Verify(tok)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	for _, tok := range []string{"", "garbage", "not.a.jwt", "a.b"} {
		_, err := codec.Verify(tok)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q): expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestTokenCodec_Tampered(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	tok, err := codec.Issue("a@x.com", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(parts))
	}

	// Tamper with every segment in turn. Verification must fail with a
	// structural or signature error -- never succeed.
	for i := range parts {
		mutated := make([]string, 3)
		copy(mutated, parts)
		mutated[i] = flipChar(mutated[i])

		_, err := codec.Verify(strings.Join(mutated, "."))
		if err == nil {
			t.Fatalf("tampered segment %d verified successfully", i)
		}
		if !errors.Is(err, ErrTokenSignature) && !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("tampered segment %d: expected signature or malformed error, got %v", i, err)
		}
	}
}

// flipChar swaps the first character of s for a different base64url character.
func flipChar(s string) string {
	if s == "" {
		return "A"
	}
	replacement := byte('A')
	if s[0] == 'A' {
		replacement = 'B'
	}
	return string(replacement) + s[1:]
}
