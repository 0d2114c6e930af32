package models

// User represents a registered account. Authentication happens outside the
// engine; users arrive here already resolved.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique display handle.
	Username string

	// Email is the user's email address.
	Email string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
