package services

// PasswordHasher abstracts one-way password hashing and verification.
type PasswordHasher interface {
	// Hash generates a salted hash of the password.
	Hash(password string) (string, error)

	// Verify compares a hash with a plaintext candidate. A nil return means
	// the password matches; any error means it does not (including a
	// malformed hash).
	Verify(hashedPassword, password string) error
}
