package domain

import "time"

// User represents an account of the booking site. An account is created either
// through password registration or on the first Google login for an unseen
// email. A user must carry at least one credential: a password hash, a Google
// subject id, or both (a password account that later signs in with Google ends
// up linked to both).
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash,omitempty" json:"-"`
	Name         string     `bson:"name,omitempty" json:"name,omitempty"`
	GoogleID     string     `bson:"google_id,omitempty" json:"-"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"-"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// IsLinked reports whether the account is linked to a Google identity.
func (u *User) IsLinked() bool {
	return u.GoogleID != ""
}
