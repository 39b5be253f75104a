package models

// User represents a local login account. The username is the primary key;
// accounts are created and deleted, never updated.
type User struct {
	Username string

	// PasswordHash is the SHA-256 hex digest of the plaintext password.
	// Unsalted on purpose: this is a low-stakes single-tenant gate on a local
	// device, not a security boundary. Do not reuse in a networked context.
	PasswordHash string
}
