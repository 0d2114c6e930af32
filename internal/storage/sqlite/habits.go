package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
)

// CreateHabit persists a new habit on a board.
func (s *SQLiteStore) CreateHabit(ctx context.Context, habit *models.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt == 0 {
		habit.CreatedAt = nowUnix()
	}
	habit.UpdatedAt = habit.CreatedAt
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyNone
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO habits (id, board_id, name, description, frequency, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		habit.ID, habit.BoardID, habit.Name, habit.Description, string(habit.Frequency), habit.IsActive, habit.CreatedAt, habit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID.
func (s *SQLiteStore) GetHabit(ctx context.Context, habitID string) (*models.Habit, error) {
	habit := &models.Habit{}
	var frequency string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, board_id, name, description, frequency, is_active, created_at, updated_at FROM habits WHERE id = ?",
		habitID,
	).Scan(&habit.ID, &habit.BoardID, &habit.Name, &habit.Description, &frequency, &habit.IsActive, &habit.CreatedAt, &habit.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit %s: %w", habitID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	habit.Frequency = models.HabitFrequency(frequency)
	return habit, nil
}

// UpdateHabit updates a habit's mutable fields.
func (s *SQLiteStore) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	habit.UpdatedAt = nowUnix()
	res, err := s.db.ExecContext(ctx,
		"UPDATE habits SET name = ?, description = ?, frequency = ?, is_active = ?, updated_at = ? WHERE id = ?",
		habit.Name, habit.Description, string(habit.Frequency), habit.IsActive, habit.UpdatedAt, habit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("habit %s: %w", habit.ID, ledger.ErrNotFound)
	}
	return nil
}

// ListHabits returns all habits on a board, oldest first.
func (s *SQLiteStore) ListHabits(ctx context.Context, boardID string) ([]*models.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, board_id, name, description, frequency, is_active, created_at, updated_at FROM habits WHERE board_id = ? ORDER BY created_at",
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		var frequency string
		if err := rows.Scan(&habit.ID, &habit.BoardID, &habit.Name, &habit.Description, &frequency, &habit.IsActive, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habit.Frequency = models.HabitFrequency(frequency)
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}
