package service

import (
	"context"
	"log/slog"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
	"github.com/splitboard/splitboard/internal/storage"
)

// BoardService manages users, boards, memberships, habits and categories.
type BoardService struct {
	store storage.Store
}

// NewBoardService creates a BoardService with the given storage backend.
func NewBoardService(store storage.Store) *BoardService {
	return &BoardService{store: store}
}

// CreateUser registers a user and provisions their default board. The
// provisioning is an explicit step of the creation workflow, not a
// side-channel subscriber, so the coupling stays visible here.
func (s *BoardService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	if username == "" {
		return nil, ledger.Validationf("username must not be empty")
	}

	user := &models.User{Username: username, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.provisionDefaultBoard(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// provisionDefaultBoard gives a fresh user a board of their own.
func (s *BoardService) provisionDefaultBoard(ctx context.Context, user *models.User) error {
	board := &models.Board{
		Name:        "Default Board",
		Description: "This is your default board.",
		CreatedBy:   user.ID,
	}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		return err
	}
	if err := s.store.AddMember(ctx, board.ID, user.ID); err != nil {
		return err
	}
	slog.Debug("Default board provisioned", "user_id", user.ID, "board_id", board.ID)
	return nil
}

// GetUserByUsername resolves a username.
func (s *BoardService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// CreateBoard creates a board; the creator automatically joins it.
func (s *BoardService) CreateBoard(ctx context.Context, name, description, creatorID string) (*models.Board, error) {
	if name == "" {
		return nil, ledger.Validationf("board name must not be empty")
	}
	creator, err := s.store.GetUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	board := &models.Board{Name: name, Description: description, CreatedBy: creator.ID}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		return nil, err
	}
	if err := s.store.AddMember(ctx, board.ID, creator.ID); err != nil {
		return nil, err
	}

	slog.Info("Board created", "board_id", board.ID, "name", board.Name, "created_by", creator.ID)
	return board, nil
}

// AddMember joins a user to a board.
func (s *BoardService) AddMember(ctx context.Context, boardID, userID string) error {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.store.AddMember(ctx, boardID, userID); err != nil {
		return err
	}
	slog.Info("Member added", "board_id", boardID, "user_id", userID)
	return nil
}

// Members lists a board's members in join order.
func (s *BoardService) Members(ctx context.Context, boardID string) ([]*models.User, error) {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, boardID)
}

// BoardsForUser lists the boards a user belongs to.
func (s *BoardService) BoardsForUser(ctx context.Context, userID string) ([]*models.Board, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListBoardsForUser(ctx, userID)
}

// DeleteBoard removes a board and everything on it.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID string) error {
	if err := s.store.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	slog.Info("Board deleted", "board_id", boardID)
	return nil
}

// CreateCategory adds a board-scoped expense category.
func (s *BoardService) CreateCategory(ctx context.Context, boardID, name, emoji string) (*models.Category, error) {
	if name == "" {
		return nil, ledger.Validationf("category name must not be empty")
	}
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}

	category := &models.Category{BoardID: boardID, Name: name, Emoji: emoji}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Categories lists the global categories plus the board's own.
func (s *BoardService) Categories(ctx context.Context, boardID string) ([]*models.Category, error) {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, boardID)
}

// CreateHabit adds a habit to a board. New habits start active.
func (s *BoardService) CreateHabit(ctx context.Context, boardID, name, description string, frequency models.HabitFrequency) (*models.Habit, error) {
	if name == "" {
		return nil, ledger.Validationf("habit name must not be empty")
	}
	if frequency != "" && !frequency.Valid() {
		return nil, ledger.Validationf("unknown habit frequency %q", frequency)
	}
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		BoardID:     boardID,
		Name:        name,
		Description: description,
		Frequency:   frequency,
		IsActive:    true,
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}
	slog.Info("Habit created", "habit_id", habit.ID, "board_id", boardID, "name", name)
	return habit, nil
}

// Habits lists a board's habits.
func (s *BoardService) Habits(ctx context.Context, boardID string) ([]*models.Habit, error) {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}
	return s.store.ListHabits(ctx, boardID)
}

// SetHabitActive flips a habit's active flag.
func (s *BoardService) SetHabitActive(ctx context.Context, habitID string, active bool) (*models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	habit.IsActive = active
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}
