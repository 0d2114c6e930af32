package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
)

// CreateBoard persists a new board. ID and timestamps are generated if
// unset.
func (s *SQLiteStore) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	if board.CreatedAt == 0 {
		board.CreatedAt = nowUnix()
	}
	board.UpdatedAt = board.CreatedAt

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO boards (id, name, description, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		board.ID, board.Name, board.Description, board.CreatedBy, board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

// GetBoard retrieves a board by ID.
func (s *SQLiteStore) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	board := &models.Board{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, created_at, updated_at FROM boards WHERE id = ?",
		boardID,
	).Scan(&board.ID, &board.Name, &board.Description, &board.CreatedBy, &board.CreatedAt, &board.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("board %s: %w", boardID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return board, nil
}

// DeleteBoard removes a board; expenses, splits, habits and board
// categories cascade.
func (s *SQLiteStore) DeleteBoard(ctx context.Context, boardID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM boards WHERE id = ?", boardID)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("board %s: %w", boardID, ledger.ErrNotFound)
	}
	return nil
}

// ListBoardsForUser returns all boards the user is a member of, oldest
// membership first.
func (s *SQLiteStore) ListBoardsForUser(ctx context.Context, userID string) ([]*models.Board, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.name, b.description, b.created_by, b.created_at, b.updated_at
		 FROM boards b
		 JOIN memberships m ON m.board_id = b.id
		 WHERE m.user_id = ?
		 ORDER BY m.joined_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		board := &models.Board{}
		if err := rows.Scan(&board.ID, &board.Name, &board.Description, &board.CreatedBy, &board.CreatedAt, &board.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}
	return boards, nil
}

// AddMember joins a user to a board. Adding an existing member surfaces
// ledger.ErrConflict.
func (s *SQLiteStore) AddMember(ctx context.Context, boardID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO memberships (board_id, user_id, joined_at) VALUES (?, ?, ?)",
		boardID, userID, nowUnix(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s already on board %s: %w", userID, boardID, ledger.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// ListMembers returns the board's members in join order. This order is
// stable and is what equal splits fall back to.
func (s *SQLiteStore) ListMembers(ctx context.Context, boardID string) ([]*models.User, error) {
	return listMembers(ctx, s.db, boardID)
}

// querier lets member reads run on the pool or inside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listMembers(ctx context.Context, q querier, boardID string) ([]*models.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT u.id, u.username, u.email, u.created_at
		 FROM users u
		 JOIN memberships m ON m.user_id = u.id
		 WHERE m.board_id = ?
		 ORDER BY m.joined_at, u.id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return users, nil
}
