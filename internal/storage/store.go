// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitboard/splitboard/internal/models"
)

// BoardSnapshot is everything the balance aggregator needs for one board,
// read in a single transaction so concurrent split replacements are
// observed either fully or not at all.
type BoardSnapshot struct {
	Members  []*models.User
	Expenses []*models.Expense
	Splits   []*models.ExpenseSplit
}

// Store defines the interface for ledger storage operations. This
// abstraction keeps the engine independent of the backend; lookups return
// an error wrapping ledger.ErrNotFound when the row does not exist.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// Boards and memberships. AddMember is unique per (board, user);
	// ListMembers returns members in join order, which is the stable
	// participant order used for equal splits.
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
	ListBoardsForUser(ctx context.Context, userID string) ([]*models.Board, error)
	AddMember(ctx context.Context, boardID, userID string) error
	ListMembers(ctx context.Context, boardID string) ([]*models.User, error)

	// Categories. ListCategories returns global categories plus the
	// board's own.
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context, boardID string) ([]*models.Category, error)

	// Habits.
	CreateHabit(ctx context.Context, habit *models.Habit) error
	GetHabit(ctx context.Context, habitID string) (*models.Habit, error)
	UpdateHabit(ctx context.Context, habit *models.Habit) error
	ListHabits(ctx context.Context, boardID string) ([]*models.Habit, error)

	// Expenses and splits. CreateExpenseWithSplits and
	// UpdateExpenseWithSplits commit the expense record and the full
	// split set in one transaction: a failed split application never
	// leaves a bare or half-updated expense behind. ReplaceSplits
	// atomically discards all existing splits for the expense and
	// inserts the new set.
	CreateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []*models.ExpenseSplit) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	UpdateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []*models.ExpenseSplit) error
	ReplaceSplits(ctx context.Context, expenseID string, splits []*models.ExpenseSplit) error
	ListSplits(ctx context.Context, expenseID string) ([]*models.ExpenseSplit, error)
	ListExpenses(ctx context.Context, boardID string) ([]*models.Expense, error)
	ListSplitsForBoard(ctx context.Context, boardID string) ([]*models.ExpenseSplit, error)

	// BoardSnapshot reads members, expenses and splits for a board in a
	// single consistent view.
	BoardSnapshot(ctx context.Context, boardID string) (*BoardSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
