package service

import (
	"context"
	"errors"
	"testing"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
)

func TestCreateUserProvisionsDefaultBoard(t *testing.T) {
	boards, _ := setupServices(t)
	ctx := context.Background()

	user, err := boards.CreateUser(ctx, "dana", "dana@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	owned, err := boards.BoardsForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("BoardsForUser failed: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected 1 board for a fresh user, got %d", len(owned))
	}
	if owned[0].Name != "Default Board" {
		t.Errorf("board name = %q, want Default Board", owned[0].Name)
	}

	members, err := boards.Members(ctx, owned[0].ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != user.ID {
		t.Errorf("fresh user should be the only member of their default board")
	}
}

func TestCreateUserValidation(t *testing.T) {
	boards, _ := setupServices(t)
	ctx := context.Background()

	if _, err := boards.CreateUser(ctx, "", "x@example.com"); !ledger.IsValidation(err) {
		t.Errorf("empty username should be ValidationError, got %v", err)
	}

	if _, err := boards.CreateUser(ctx, "dup", "dup@example.com"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := boards.CreateUser(ctx, "dup", "other@example.com"); !errors.Is(err, ledger.ErrConflict) {
		t.Errorf("duplicate username should be ErrConflict, got %v", err)
	}
}

func TestCreateBoardAutoJoinsCreator(t *testing.T) {
	boards, _ := setupServices(t)
	ctx := context.Background()

	user, err := boards.CreateUser(ctx, "erin", "erin@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	board, err := boards.CreateBoard(ctx, "Trip", "Summer trip", user.ID)
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}

	members, err := boards.Members(ctx, board.ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != user.ID {
		t.Errorf("creator should be a member of the new board")
	}

	if err := boards.AddMember(ctx, "missing", user.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("AddMember on unknown board should be ErrNotFound, got %v", err)
	}
}

func TestHabitLifecycle(t *testing.T) {
	boards, _ := setupServices(t)
	ctx := context.Background()

	user, err := boards.CreateUser(ctx, "fred", "fred@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	board, err := boards.CreateBoard(ctx, "Habits", "", user.ID)
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}

	if _, err := boards.CreateHabit(ctx, board.ID, "Stretch", "", models.HabitFrequency("hourly")); !ledger.IsValidation(err) {
		t.Errorf("unknown frequency should be ValidationError, got %v", err)
	}

	habit, err := boards.CreateHabit(ctx, board.ID, "Stretch", "Morning stretch", models.FrequencyDaily)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if !habit.IsActive {
		t.Error("new habits should start active")
	}

	habit, err = boards.SetHabitActive(ctx, habit.ID, false)
	if err != nil {
		t.Fatalf("SetHabitActive failed: %v", err)
	}
	if habit.IsActive {
		t.Error("habit should be inactive after pausing")
	}

	habits, err := boards.Habits(ctx, board.ID)
	if err != nil {
		t.Fatalf("Habits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
}

func TestCategories(t *testing.T) {
	boards, _ := setupServices(t)
	ctx := context.Background()

	user, err := boards.CreateUser(ctx, "gail", "gail@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	board, err := boards.CreateBoard(ctx, "Cats", "", user.ID)
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}

	if _, err := boards.CreateCategory(ctx, board.ID, "", "💸"); !ledger.IsValidation(err) {
		t.Errorf("empty category name should be ValidationError, got %v", err)
	}

	if _, err := boards.CreateCategory(ctx, board.ID, "Rent", "🏠"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	categories, err := boards.Categories(ctx, board.ID)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	globals := 0
	for _, c := range categories {
		if c.BoardID == "" {
			globals++
		}
	}
	if globals != 6 {
		t.Errorf("expected 6 global categories, got %d", globals)
	}
	if len(categories) != 7 {
		t.Errorf("expected 7 categories total, got %d", len(categories))
	}
}
