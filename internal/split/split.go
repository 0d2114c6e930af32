// Package split computes per-user shares for an expense from its total and
// a split strategy. All three strategies are pure: they neither read nor
// write storage, and the caller supplies the resolved participant order.
package split

import (
	"github.com/shopspring/decimal"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/money"
)

// Type identifies the split strategy stored on an expense.
type Type string

const (
	TypeEqual      Type = "equal"
	TypeAmount     Type = "amount"
	TypePercentage Type = "percentage"
)

// Valid reports whether t is a known split type.
func (t Type) Valid() bool {
	switch t {
	case TypeEqual, TypeAmount, TypePercentage:
		return true
	}
	return false
}

// Input is one user's entry in the caller-supplied split data.
// Equal splits use only UserID; amount splits require Share; percentage
// splits require Percent. Each strategy enforces its own requirements.
type Input struct {
	UserID  string
	Share   *decimal.Decimal
	Percent *decimal.Decimal
}

// Share is one user's computed portion of an expense.
// Percent is retained only for percentage splits, for display.
type Share struct {
	UserID  string
	Amount  decimal.Decimal
	Percent *decimal.Decimal
}

// Strategy computes shares for one split type.
type Strategy interface {
	Type() Type
	// Compute turns the expense total, the fallback participant order and
	// the strategy input into shares. The fallback participants are only
	// consulted by the equal strategy when no explicit input is given.
	Compute(total decimal.Decimal, participants []string, inputs []Input) ([]Share, error)
}

// ForType returns the strategy for the given type.
func ForType(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return equalStrategy{}, nil
	case TypeAmount:
		return amountStrategy{}, nil
	case TypePercentage:
		return percentageStrategy{}, nil
	default:
		return nil, ledger.Validationf("unknown split type %q", t)
	}
}

// Compute dispatches to the strategy for typ.
func Compute(total decimal.Decimal, typ Type, participants []string, inputs []Input) ([]Share, error) {
	strategy, err := ForType(typ)
	if err != nil {
		return nil, err
	}
	return strategy.Compute(total, participants, inputs)
}

// rejectDuplicates fails if any user id appears twice.
func rejectDuplicates(userIDs []string) error {
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			return ledger.Validationf("user %s appears more than once in splits", id)
		}
		seen[id] = true
	}
	return nil
}

type equalStrategy struct{}

func (equalStrategy) Type() Type { return TypeEqual }

func (equalStrategy) Compute(total decimal.Decimal, participants []string, inputs []Input) ([]Share, error) {
	users := participants
	if len(inputs) > 0 {
		users = make([]string, len(inputs))
		for i, in := range inputs {
			users[i] = in.UserID
		}
	}
	if len(users) == 0 {
		return nil, ledger.Validationf("no users to split between")
	}
	if err := rejectDuplicates(users); err != nil {
		return nil, err
	}

	amounts := money.SplitEven(total, len(users))
	shares := make([]Share, len(users))
	for i, id := range users {
		shares[i] = Share{UserID: id, Amount: amounts[i]}
	}
	return shares, nil
}

type amountStrategy struct{}

func (amountStrategy) Type() Type { return TypeAmount }

func (amountStrategy) Compute(total decimal.Decimal, _ []string, inputs []Input) ([]Share, error) {
	if len(inputs) == 0 {
		return nil, ledger.Validationf("splits data is required for amount split type")
	}

	users := make([]string, len(inputs))
	sum := decimal.Zero
	for i, in := range inputs {
		if in.Share == nil {
			return nil, ledger.Validationf("share amount is required for user %s", in.UserID)
		}
		// Shares are persisted as given, so sub-cent precision would let
		// the stored splits drift from the validated sum.
		if !in.Share.Equal(money.Round2(*in.Share)) {
			return nil, ledger.Validationf("share amount %s for user %s must not have more than two decimal places", in.Share, in.UserID)
		}
		users[i] = in.UserID
		sum = sum.Add(*in.Share)
	}
	if err := rejectDuplicates(users); err != nil {
		return nil, err
	}
	if !sum.Equal(total) {
		return nil, ledger.Validationf("total split amount %s must equal the expense amount %s", sum, total)
	}

	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{UserID: in.UserID, Amount: *in.Share}
	}
	return shares, nil
}

type percentageStrategy struct{}

func (percentageStrategy) Type() Type { return TypePercentage }

func (percentageStrategy) Compute(total decimal.Decimal, _ []string, inputs []Input) ([]Share, error) {
	if len(inputs) == 0 {
		return nil, ledger.Validationf("splits data is required for percentage split type")
	}

	users := make([]string, len(inputs))
	percents := make([]decimal.Decimal, len(inputs))
	sum := decimal.Zero
	for i, in := range inputs {
		if in.Percent == nil {
			return nil, ledger.Validationf("percentage is required for user %s", in.UserID)
		}
		users[i] = in.UserID
		percents[i] = *in.Percent
		sum = sum.Add(*in.Percent)
	}
	if err := rejectDuplicates(users); err != nil {
		return nil, err
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		return nil, ledger.Validationf("total split percentage must equal 100%%, got %s", sum)
	}

	amounts := money.AllocateByPercent(total, percents)
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		pct := *in.Percent
		shares[i] = Share{UserID: in.UserID, Amount: amounts[i], Percent: &pct}
	}
	return shares, nil
}
