package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
)

// CreateCategory persists a board category. Global categories come from
// the migration seed, not from here.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = nowUnix()
	}
	category.UpdatedAt = category.CreatedAt
	if category.Emoji == "" {
		category.Emoji = "💰"
	}

	var boardID any
	if category.BoardID != "" {
		boardID = category.BoardID
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, board_id, name, emoji, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		category.ID, boardID, category.Name, category.Emoji, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	category := &models.Category{}
	var boardID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, board_id, name, emoji, created_at, updated_at FROM categories WHERE id = ?",
		categoryID,
	).Scan(&category.ID, &boardID, &category.Name, &category.Emoji, &category.CreatedAt, &category.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %s: %w", categoryID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if boardID.Valid {
		category.BoardID = boardID.String
	}
	return category, nil
}

// ListCategories returns the global categories followed by the board's own.
func (s *SQLiteStore) ListCategories(ctx context.Context, boardID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, name, emoji, created_at, updated_at
		 FROM categories
		 WHERE board_id IS NULL OR board_id = ?
		 ORDER BY board_id IS NOT NULL, name`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		var bid sql.NullString
		if err := rows.Scan(&category.ID, &bid, &category.Name, &category.Emoji, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if bid.Valid {
			category.BoardID = bid.String
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
