package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/metrics"
	"github.com/splitboard/splitboard/internal/models"
	"github.com/splitboard/splitboard/internal/split"
	"github.com/splitboard/splitboard/internal/storage"
)

// ExpenseService owns the expense lifecycle: creating and updating
// expenses, recomputing their splits, and aggregating board balances.
// Requests are assumed pre-authorized; membership checks happen upstream.
type ExpenseService struct {
	store    storage.Store
	validate *validator.Validate
	locks    *keyedLocks
}

// NewExpenseService creates an ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{
		store:    store,
		validate: validator.New(),
		locks:    newKeyedLocks(),
	}
}

// SplitInput is one user's entry in caller-supplied split data.
type SplitInput struct {
	UserID  string `validate:"required"`
	Share   *decimal.Decimal
	Percent *decimal.Decimal
}

// CreateExpenseRequest describes a new expense. Splits is optional for
// equal expenses (all current board members participate); amount and
// percentage expenses require it.
type CreateExpenseRequest struct {
	BoardID     string     `validate:"required"`
	PayerID     string     `validate:"required"`
	Amount      decimal.Decimal
	SplitType   split.Type `validate:"required,oneof=equal amount percentage"`
	CategoryID  string
	Description string
	Date        time.Time
	Splits      []SplitInput `validate:"dive"`
}

// UpdateExpenseRequest carries a partial set of changed fields. Nil means
// "leave as is". Splits, when non-nil, forces a recompute with the given
// input against the current amount and split type.
type UpdateExpenseRequest struct {
	PayerID     *string
	Amount      *decimal.Decimal
	SplitType   *split.Type `validate:"omitempty,oneof=equal amount percentage"`
	CategoryID  *string
	Description *string
	Date        *time.Time
	Splits      []SplitInput `validate:"omitempty,dive"`
}

// CreateExpense creates the expense record, computes its splits and
// commits both in one transaction.
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*models.Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		metrics.ValidationFailures.Inc()
		return nil, ledger.Validationf("invalid expense request: %v", err)
	}

	board, err := s.store.GetBoard(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, req.PayerID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, board.ID, req.CategoryID); err != nil {
		return nil, err
	}

	shares, err := s.computeShares(ctx, board.ID, req.Amount, req.SplitType, req.Splits)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		BoardID:     board.ID,
		PayerID:     req.PayerID,
		SplitType:   req.SplitType,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := s.store.CreateExpenseWithSplits(ctx, expense, sharesToSplits(expense.ID, shares)); err != nil {
		return nil, err
	}

	metrics.ExpensesCreated.Inc()
	metrics.SplitRecomputes.WithLabelValues(string(req.SplitType)).Inc()
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"board_id", board.ID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"splits", len(shares),
	)
	return expense, nil
}

// UpdateExpense applies a partial set of field changes and recomputes
// splits when needed. Recompute rules:
//
//   - Splits supplied: recompute with that input against the updated
//     amount and split type.
//   - Equal expense whose amount or type changed: recompute against the
//     current board membership.
//   - Amount/percentage expense whose amount or type changed without new
//     split input: rejected. Stale splits that no longer sum to the
//     amount are worse than asking the caller again.
//   - Anything else (category, description, date, payer): scalar update
//     only; splits untouched.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expenseID string, req UpdateExpenseRequest) (*models.Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		metrics.ValidationFailures.Inc()
		return nil, ledger.Validationf("invalid expense update: %v", err)
	}

	unlock := s.locks.lock(expenseID)
	defer unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	amountChanged := req.Amount != nil && !req.Amount.Equal(expense.Amount)
	typeChanged := req.SplitType != nil && *req.SplitType != expense.SplitType

	if req.PayerID != nil {
		if _, err := s.store.GetUser(ctx, *req.PayerID); err != nil {
			return nil, err
		}
		expense.PayerID = *req.PayerID
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.SplitType != nil {
		expense.SplitType = *req.SplitType
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, expense.BoardID, *req.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	recompute := req.Splits != nil
	if !recompute && (amountChanged || typeChanged) {
		if expense.SplitType == split.TypeEqual {
			recompute = true
		} else {
			metrics.ValidationFailures.Inc()
			return nil, ledger.Validationf(
				"split input is required when changing the amount or type of an %s expense", expense.SplitType)
		}
	}

	if !recompute {
		if err := s.store.UpdateExpense(ctx, expense); err != nil {
			return nil, err
		}
		slog.Info("Expense updated", "expense_id", expense.ID)
		return expense, nil
	}

	shares, err := s.computeShares(ctx, expense.BoardID, expense.Amount, expense.SplitType, req.Splits)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateExpenseWithSplits(ctx, expense, sharesToSplits(expense.ID, shares)); err != nil {
		return nil, err
	}

	metrics.SplitRecomputes.WithLabelValues(string(expense.SplitType)).Inc()
	slog.Info("Expense updated with recomputed splits",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"splits", len(shares),
	)
	return expense, nil
}

// GetExpense returns an expense with its current splits.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []*models.ExpenseSplit, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	splits, err := s.store.ListSplits(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	return expense, splits, nil
}

// BoardBalances computes every member's net position in the board. Each
// member appears even with no expenses or splits. Reads a single
// consistent snapshot, so a concurrent split replacement is observed
// either fully or not at all.
func (s *ExpenseService) BoardBalances(ctx context.Context, boardID string) (map[string]models.Balance, error) {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}
	snap, err := s.store.BoardSnapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]models.Balance, len(snap.Members))
	for _, member := range snap.Members {
		balances[member.ID] = models.Balance{
			UserID: member.ID,
			Paid:   decimal.Zero,
			Owed:   decimal.Zero,
			Net:    decimal.Zero,
		}
	}
	for _, expense := range snap.Expenses {
		if b, ok := balances[expense.PayerID]; ok {
			b.Paid = b.Paid.Add(expense.Amount)
			balances[expense.PayerID] = b
		}
	}
	for _, sp := range snap.Splits {
		if b, ok := balances[sp.UserID]; ok {
			b.Owed = b.Owed.Add(sp.ShareAmount)
			balances[sp.UserID] = b
		}
	}
	for id, b := range balances {
		b.Net = b.Paid.Sub(b.Owed)
		balances[id] = b
	}

	metrics.BalanceQueries.Inc()
	return balances, nil
}

// UserBalance returns one user's net position in a board: total paid
// minus total owed. Users with no activity in the board balance to zero.
func (s *ExpenseService) UserBalance(ctx context.Context, userID, boardID string) (decimal.Decimal, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return decimal.Zero, err
	}
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return decimal.Zero, err
	}
	snap, err := s.store.BoardSnapshot(ctx, boardID)
	if err != nil {
		return decimal.Zero, err
	}

	paid, owed := decimal.Zero, decimal.Zero
	for _, expense := range snap.Expenses {
		if expense.PayerID == userID {
			paid = paid.Add(expense.Amount)
		}
	}
	for _, sp := range snap.Splits {
		if sp.UserID == userID {
			owed = owed.Add(sp.ShareAmount)
		}
	}
	return paid.Sub(owed), nil
}

// checkCategory verifies the category exists and is usable from the
// board: either global or owned by that same board.
func (s *ExpenseService) checkCategory(ctx context.Context, boardID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.BoardID != "" && category.BoardID != boardID {
		return fmt.Errorf("category %s does not belong to board %s: %w", categoryID, boardID, ledger.ErrNotFound)
	}
	return nil
}

// computeShares resolves participants, verifies any explicitly named
// users exist, and runs the split strategy.
func (s *ExpenseService) computeShares(ctx context.Context, boardID string, amount decimal.Decimal, typ split.Type, inputs []SplitInput) ([]split.Share, error) {
	members, err := s.store.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	participants := make([]string, len(members))
	memberSet := make(map[string]bool, len(members))
	for i, m := range members {
		participants[i] = m.ID
		memberSet[m.ID] = true
	}

	splitInputs := make([]split.Input, len(inputs))
	for i, in := range inputs {
		// Named users need not be members, but must exist.
		if !memberSet[in.UserID] {
			if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
				return nil, err
			}
		}
		splitInputs[i] = split.Input{UserID: in.UserID, Share: in.Share, Percent: in.Percent}
	}

	shares, err := split.Compute(amount, typ, participants, splitInputs)
	if err != nil {
		if ledger.IsValidation(err) {
			metrics.ValidationFailures.Inc()
		}
		return nil, fmt.Errorf("failed to compute splits: %w", err)
	}
	return shares, nil
}

func sharesToSplits(expenseID string, shares []split.Share) []*models.ExpenseSplit {
	splits := make([]*models.ExpenseSplit, len(shares))
	for i, share := range shares {
		splits[i] = &models.ExpenseSplit{
			ExpenseID:   expenseID,
			UserID:      share.UserID,
			ShareAmount: share.Amount,
			Percentage:  share.Percent,
		}
	}
	return splits
}
