package auth_test

import (
	"crypto/rand"
	"testing"

	"github.com/himuexe/Utsavia/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if err := hasher.Verify(hash, "secret1"); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
	if err := hasher.Verify(hash, "wrong"); err == nil {
		t.Errorf("Verify should have failed for a wrong password")
	}

	t.Run("TwoHashesDiffer", func(t *testing.T) {
		other, err := hasher.Hash("secret1")
		if err != nil {
			t.Fatalf("Hash failed: %v", err)
		}
		if other == hash {
			t.Errorf("expected distinct hashes for the same password (random salt)")
		}
	})

	t.Run("MalformedHash", func(t *testing.T) {
		if err := hasher.Verify("not-a-bcrypt-hash", "secret1"); err == nil {
			t.Errorf("Verify should have failed for a malformed hash")
		}
	})

	t.Run("TooLongPassword", func(t *testing.T) {
		tooLongPass := make([]byte, 73)
		rand.Read(tooLongPass)

		_, err := hasher.Hash(string(tooLongPass))
		if err == nil {
			t.Errorf("Hash should have failed")
		}
	})
}
