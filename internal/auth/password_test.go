package auth_test

import (
	"testing"

	"github.com/taskvault/taskvault-backend/internal/auth"
)

// testPasswordConfig uses minimal Argon2 settings for faster tests
func testPasswordConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashPassword(t *testing.T) {
	cfg := testPasswordConfig()

	hash, salt, err := auth.HashPassword("password123", cfg)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hash == "" {
		t.Error("Expected non-empty hash")
	}
	if salt == "" {
		t.Error("Expected non-empty salt")
	}

	// Hashing the same password twice uses a fresh salt
	hash2, salt2, err := auth.HashPassword("password123", cfg)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == hash2 {
		t.Error("Expected different hashes for different salts")
	}
	if salt == salt2 {
		t.Error("Expected different salts for each hash")
	}
}

func TestVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	hash, salt, err := auth.HashPassword("password123", cfg)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	match, err := auth.VerifyPassword("password123", hash, salt, cfg)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if !match {
		t.Error("Expected correct password to match")
	}

	match, err = auth.VerifyPassword("wrongpassword", hash, salt, cfg)
	if err != nil {
		t.Fatalf("Failed to verify password: %v", err)
	}
	if match {
		t.Error("Expected wrong password not to match")
	}
}

func TestVerifyPassword_BadEncoding(t *testing.T) {
	cfg := testPasswordConfig()

	if _, err := auth.VerifyPassword("password123", "!!!not-base64!!!", "c2FsdA==", cfg); err == nil {
		t.Error("Expected error for undecodable hash")
	}

	if _, err := auth.VerifyPassword("password123", "aGFzaA==", "!!!not-base64!!!", cfg); err == nil {
		t.Error("Expected error for undecodable salt")
	}
}

func TestGenerateRandomBytes(t *testing.T) {
	b, err := auth.GenerateRandomBytes(32)
	if err != nil {
		t.Fatalf("Failed to generate random bytes: %v", err)
	}

	if len(b) != 32 {
		t.Errorf("Expected 32 bytes, got %d", len(b))
	}
}

func TestGenerateResetToken(t *testing.T) {
	token, err := auth.GenerateResetToken(32)
	if err != nil {
		t.Fatalf("Failed to generate reset token: %v", err)
	}

	if token == "" {
		t.Error("Expected non-empty token")
	}

	// Tokens are URL-safe
	for _, c := range token {
		if c == '+' || c == '/' || c == '=' {
			t.Errorf("Expected URL-safe token, found %q", c)
		}
	}

	// Two tokens never collide
	token2, err := auth.GenerateResetToken(32)
	if err != nil {
		t.Fatalf("Failed to generate second token: %v", err)
	}
	if token == token2 {
		t.Error("Expected unique tokens")
	}
}
