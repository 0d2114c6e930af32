package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/models"
	"github.com/splitboard/splitboard/internal/split"
	"github.com/splitboard/splitboard/internal/storage"
)

// CreateExpenseWithSplits persists an expense and its computed splits in
// one transaction. Either everything lands or nothing does.
func (s *SQLiteStore) CreateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []*models.ExpenseSplit) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = nowUnix()
	}
	expense.UpdatedAt = expense.CreatedAt
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var categoryID any
	if expense.CategoryID != "" {
		categoryID = expense.CategoryID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, board_id, payer_id, split_type, amount, category_id, description, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.BoardID, expense.PayerID, string(expense.SplitType), expense.Amount.String(),
		categoryID, expense.Description, expense.Date.Format(dateLayout), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := replaceSplitsTx(ctx, tx, expense.ID, splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, board_id, payer_id, split_type, amount, category_id, description, date, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpenseRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// UpdateExpense rewrites an expense's scalar fields without touching its
// splits.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateExpenseTx(ctx, tx, expense); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpenseWithSplits rewrites the expense record and replaces its
// whole split set in one transaction, so balance readers observe either
// the old state or the new state, never a mix.
func (s *SQLiteStore) UpdateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []*models.ExpenseSplit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateExpenseTx(ctx, tx, expense); err != nil {
		return err
	}
	if err := replaceSplitsTx(ctx, tx, expense.ID, splits); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceSplits atomically discards all existing splits for the expense
// and inserts the new set.
func (s *SQLiteStore) ReplaceSplits(ctx context.Context, expenseID string, splits []*models.ExpenseSplit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceSplitsTx(ctx, tx, expenseID, splits); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func updateExpenseTx(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	expense.UpdatedAt = nowUnix()
	var categoryID any
	if expense.CategoryID != "" {
		categoryID = expense.CategoryID
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET payer_id = ?, split_type = ?, amount = ?, category_id = ?, description = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.PayerID, string(expense.SplitType), expense.Amount.String(), categoryID,
		expense.Description, expense.Date.Format(dateLayout), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, ledger.ErrNotFound)
	}
	return nil
}

func replaceSplitsTx(ctx context.Context, tx *sql.Tx, expenseID string, splits []*models.ExpenseSplit) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete old splits: %w", err)
	}

	now := nowUnix()
	for _, sp := range splits {
		if sp.ID == "" {
			sp.ID = uuid.New().String()
		}
		sp.ExpenseID = expenseID
		if sp.CreatedAt == 0 {
			sp.CreatedAt = now
		}
		sp.UpdatedAt = now

		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, share_amount, percentage, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			sp.ID, expenseID, sp.UserID, sp.ShareAmount.String(), nullDecimal(sp.Percentage), sp.CreatedAt, sp.UpdatedAt,
		)
		if isUniqueViolation(err) {
			// Two splits for one user means a concurrent recompute won
			// the race inside this replacement window.
			return fmt.Errorf("split for user %s on expense %s: %w", sp.UserID, expenseID, ledger.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// ListSplits returns the splits for one expense in insertion order.
func (s *SQLiteStore) ListSplits(ctx context.Context, expenseID string) ([]*models.ExpenseSplit, error) {
	return listSplits(ctx, s.db, "WHERE expense_id = ?", expenseID)
}

// ListExpenses returns all expenses in a board, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, boardID string) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, boardID)
}

// ListSplitsForBoard returns every split belonging to the board's
// expenses.
func (s *SQLiteStore) ListSplitsForBoard(ctx context.Context, boardID string) ([]*models.ExpenseSplit, error) {
	return listSplits(ctx, s.db,
		"JOIN expenses e ON e.id = expense_splits.expense_id WHERE e.board_id = ?", boardID)
}

// BoardSnapshot reads members, expenses and splits in one transaction so
// the balance aggregator never sees a half-replaced split set.
func (s *SQLiteStore) BoardSnapshot(ctx context.Context, boardID string) (*storage.BoardSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	members, err := listMembers(ctx, tx, boardID)
	if err != nil {
		return nil, err
	}
	expenses, err := listExpenses(ctx, tx, boardID)
	if err != nil {
		return nil, err
	}
	splits, err := listSplits(ctx, tx,
		"JOIN expenses e ON e.id = expense_splits.expense_id WHERE e.board_id = ?", boardID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &storage.BoardSnapshot{Members: members, Expenses: expenses, Splits: splits}, nil
}

func listExpenses(ctx context.Context, q querier, boardID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, board_id, payer_id, split_type, amount, category_id, description, date, created_at, updated_at
		 FROM expenses WHERE board_id = ? ORDER BY created_at, id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpenseRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func listSplits(ctx context.Context, q querier, fromWhere string, arg any) ([]*models.ExpenseSplit, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT expense_splits.id, expense_splits.expense_id, expense_splits.user_id,
		        expense_splits.share_amount, expense_splits.percentage,
		        expense_splits.created_at, expense_splits.updated_at
		 FROM expense_splits `+fromWhere+` ORDER BY expense_splits.created_at, expense_splits.id`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.ExpenseSplit
	for rows.Next() {
		sp := &models.ExpenseSplit{}
		var share string
		var percentage sql.NullString
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &share, &percentage, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.ShareAmount, err = scanDecimal(share); err != nil {
			return nil, err
		}
		if percentage.Valid {
			pct, err := scanDecimal(percentage.String)
			if err != nil {
				return nil, err
			}
			sp.Percentage = &pct
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// scanExpenseRow scans one expense row regardless of whether it came from
// QueryRow or Rows.
func scanExpenseRow(scan func(dest ...any) error) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType, amount, date string
	var categoryID sql.NullString
	err := scan(&expense.ID, &expense.BoardID, &expense.PayerID, &splitType, &amount,
		&categoryID, &expense.Description, &date, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}

	expense.SplitType = split.Type(splitType)
	if expense.Amount, err = scanDecimal(amount); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		expense.CategoryID = categoryID.String
	}
	if expense.Date, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("failed to parse stored date %q: %w", date, err)
	}
	return expense, nil
}
