package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitboard/splitboard/internal/split"
)

// Category labels expenses. A category with an empty BoardID is global and
// usable from any board; otherwise it belongs to one board.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// BoardID is empty for the seeded global categories.
	BoardID string

	Name  string
	Emoji string

	CreatedAt int64
	UpdatedAt int64
}

// Expense is a shared cost paid by one board member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// BoardID is the board that owns the expense. Deleting a board
	// cascades to its expenses.
	BoardID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// SplitType selects how the amount is divided among participants.
	SplitType split.Type

	// Amount is the expense total, exact decimal.
	Amount decimal.Decimal

	// CategoryID is optional.
	CategoryID string

	Description string

	// Date is the day the expense occurred (time portion unused).
	Date time.Time

	CreatedAt int64
	UpdatedAt int64
}

// ExpenseSplit is one user's share of one expense. Unique per
// (expense, user); recomputed wholesale when the expense changes.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	ExpenseID string
	UserID    string

	// ShareAmount is this user's portion of the expense total.
	ShareAmount decimal.Decimal

	// Percentage is set only for percentage splits, for display.
	Percentage *decimal.Decimal

	CreatedAt int64
	UpdatedAt int64
}

// Balance is a user's net position in a board: Paid minus Owed.
// Positive means the board owes the user; negative means the user owes
// the board. Computed on demand, never persisted.
type Balance struct {
	UserID string
	Paid   decimal.Decimal
	Owed   decimal.Decimal
	Net    decimal.Decimal
}
