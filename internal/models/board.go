package models

// Board is a group of users sharing habits and expenses.
type Board struct {
	// ID is the unique identifier for the board (UUID format).
	ID string

	// Name is the display name of the board.
	Name string

	// Description is optional free text.
	Description string

	// CreatedBy is the ID of the user who created the board.
	CreatedBy string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Membership links a user to a board. Unique per (board, user).
type Membership struct {
	BoardID string
	UserID  string

	// JoinedAt is the Unix timestamp when the user joined the board.
	// Members are ordered by it, which gives splits a stable
	// participant order.
	JoinedAt int64
}
