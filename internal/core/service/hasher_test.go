package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted hashes to differ")
	}
	if !h.Verify("s3cret-pass", first) || !h.Verify("s3cret-pass", second) {
		t.Fatalf("expected both hashes to verify")
	}
	if h.Verify("wrong", first) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "plain-text", "$2a$10$short"} {
		if h.Verify("anything", hash) {
			t.Fatalf("expected %q to fail verification", hash)
		}
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatalf("expected error for password over 72 bytes")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(bcrypt.MinCost); h.cost != bcrypt.MinCost {
		t.Fatalf("expected min cost, got %d", h.cost)
	}
}

func TestBcryptHasher_LongerInputNeverMatches(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	stored := strings.Repeat("a", 72)

	hash, err := h.Hash(stored)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify(stored, hash) {
		t.Fatalf("expected 72-byte password to verify")
	}
	if h.Verify(stored+"different-suffix", hash) {
		t.Fatalf("expected password with extra bytes past 72 to fail verification")
	}
}
