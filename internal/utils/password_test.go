package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Str0ng!pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "Str0ng!pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := hasher.Compare(hash, "Str0ng!pass"); err != nil {
		t.Errorf("Compare rejected the right password: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("Compare accepted the wrong password")
	}

	// Same input, fresh salt
	again, err := hasher.Hash("Str0ng!pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if again == hash {
		t.Error("two hashes of the same password should differ")
	}
}

func TestGeneratePassword(t *testing.T) {
	t.Run("length and alphabet", func(t *testing.T) {
		password, err := GeneratePassword(10)
		if err != nil {
			t.Fatalf("GeneratePassword failed: %v", err)
		}
		if len(password) != 10 {
			t.Errorf("length = %d, want 10", len(password))
		}
		for _, r := range password {
			if !strings.ContainsRune(PasswordAlphabet, r) {
				t.Errorf("character %q is outside the alphabet", r)
			}
		}
	})

	t.Run("successive passwords differ", func(t *testing.T) {
		a, err := GeneratePassword(10)
		if err != nil {
			t.Fatalf("GeneratePassword failed: %v", err)
		}
		b, err := GeneratePassword(10)
		if err != nil {
			t.Fatalf("GeneratePassword failed: %v", err)
		}
		if a == b {
			t.Error("two generated passwords should not collide")
		}
	})

	t.Run("non-positive length", func(t *testing.T) {
		if _, err := GeneratePassword(0); err == nil {
			t.Error("expected an error for zero length")
		}
	})
}
