package split

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitboard/splitboard/internal/ledger"
	"github.com/splitboard/splitboard/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComputeEqual(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []string
		inputs       []Input
		wantErr      bool
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name:         "falls back to board members",
			total:        "90.00",
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 3 {
					t.Fatalf("expected 3 shares, got %d", len(shares))
				}
				for _, s := range shares {
					if !s.Amount.Equal(dec("30")) {
						t.Errorf("%s share = %s, want 30", s.UserID, s.Amount)
					}
					if s.Percent != nil {
						t.Errorf("%s percent should be unset for equal splits", s.UserID)
					}
				}
			},
		},
		{
			name:         "explicit input overrides board members",
			total:        "10.00",
			participants: []string{"alice", "bob", "carol"},
			inputs:       []Input{{UserID: "alice"}, {UserID: "bob"}},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 2 {
					t.Fatalf("expected 2 shares, got %d", len(shares))
				}
				for _, s := range shares {
					if !s.Amount.Equal(dec("5")) {
						t.Errorf("%s share = %s, want 5", s.UserID, s.Amount)
					}
				}
			},
		},
		{
			name:  "remainder cents sum back to the total",
			total: "100.00",
			inputs: []Input{
				{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				want := []string{"33.34", "33.33", "33.33"}
				for i, s := range shares {
					if !s.Amount.Equal(dec(want[i])) {
						t.Errorf("share[%d] = %s, want %s", i, s.Amount, want[i])
					}
				}
			},
		},
		{
			name:         "empty participant set",
			total:        "10.00",
			participants: nil,
			wantErr:      true,
		},
		{
			name:    "duplicate user",
			total:   "10.00",
			inputs:  []Input{{UserID: "alice"}, {UserID: "alice"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.total), TypeEqual, tt.participants, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !ledger.IsValidation(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			amounts := make([]decimal.Decimal, len(shares))
			for i, s := range shares {
				amounts[i] = s.Amount
			}
			if !money.Sum(amounts).Equal(dec(tt.total)) {
				t.Errorf("sum of shares = %s, want %s", money.Sum(amounts), tt.total)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestComputeAmount(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		inputs  []Input
		wantErr bool
		want    map[string]string
	}{
		{
			name:  "shares that sum to the total pass through",
			total: "120.00",
			inputs: []Input{
				{UserID: "alice", Share: decp("70")},
				{UserID: "bob", Share: decp("50")},
			},
			want: map[string]string{"alice": "70", "bob": "50"},
		},
		{
			name:  "sum mismatch rejected",
			total: "120.00",
			inputs: []Input{
				{UserID: "alice", Share: decp("70")},
				{UserID: "bob", Share: decp("40")},
			},
			wantErr: true,
		},
		{
			name:    "missing input rejected",
			total:   "120.00",
			wantErr: true,
		},
		{
			name:  "missing share amount rejected",
			total: "120.00",
			inputs: []Input{
				{UserID: "alice", Share: decp("120")},
				{UserID: "bob"},
			},
			wantErr: true,
		},
		{
			name:  "duplicate user rejected",
			total: "120.00",
			inputs: []Input{
				{UserID: "alice", Share: decp("60")},
				{UserID: "alice", Share: decp("60")},
			},
			wantErr: true,
		},
		{
			name:  "sub-cent shares rejected even when they sum to the total",
			total: "20.00",
			inputs: []Input{
				{UserID: "alice", Share: decp("10.005")},
				{UserID: "bob", Share: decp("9.995")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.total), TypeAmount, nil, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !ledger.IsValidation(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			amounts := make([]decimal.Decimal, len(shares))
			for i, s := range shares {
				amounts[i] = s.Amount
				if !s.Amount.Equal(dec(tt.want[s.UserID])) {
					t.Errorf("%s share = %s, want %s", s.UserID, s.Amount, tt.want[s.UserID])
				}
			}
			if !money.Sum(amounts).Equal(dec(tt.total)) {
				t.Errorf("sum of shares = %s, want %s", money.Sum(amounts), tt.total)
			}
		})
	}
}

func TestComputePercentage(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		inputs  []Input
		wantErr bool
		want    map[string]string
	}{
		{
			name:  "40/60 on 100",
			total: "100.00",
			inputs: []Input{
				{UserID: "alice", Percent: decp("40")},
				{UserID: "bob", Percent: decp("60")},
			},
			want: map[string]string{"alice": "40", "bob": "60"},
		},
		{
			name:  "percentages not summing to 100 rejected",
			total: "100.00",
			inputs: []Input{
				{UserID: "alice", Percent: decp("40")},
				{UserID: "bob", Percent: decp("50")},
			},
			wantErr: true,
		},
		{
			name:    "missing input rejected",
			total:   "100.00",
			wantErr: true,
		},
		{
			name:  "missing percentage rejected",
			total: "100.00",
			inputs: []Input{
				{UserID: "alice", Percent: decp("100")},
				{UserID: "bob"},
			},
			wantErr: true,
		},
		{
			name:  "duplicate user rejected",
			total: "100.00",
			inputs: []Input{
				{UserID: "alice", Percent: decp("50")},
				{UserID: "alice", Percent: decp("50")},
			},
			wantErr: true,
		},
		{
			name:  "rounded shares still sum to the total",
			total: "0.10",
			inputs: []Input{
				{UserID: "alice", Percent: decp("33.33")},
				{UserID: "bob", Percent: decp("33.33")},
				{UserID: "carol", Percent: decp("33.34")},
			},
			want: map[string]string{"alice": "0.04", "bob": "0.03", "carol": "0.03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Compute(dec(tt.total), TypePercentage, nil, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !ledger.IsValidation(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			amounts := make([]decimal.Decimal, len(shares))
			for i, s := range shares {
				amounts[i] = s.Amount
				if s.Percent == nil {
					t.Errorf("%s percent should be retained for percentage splits", s.UserID)
				}
			}
			if !money.Sum(amounts).Equal(dec(tt.total)) {
				t.Errorf("sum of shares = %s, want %s", money.Sum(amounts), tt.total)
			}
			for _, s := range shares {
				if !s.Amount.Equal(dec(tt.want[s.UserID])) {
					t.Errorf("%s share = %s, want %s", s.UserID, s.Amount, tt.want[s.UserID])
				}
			}
		})
	}
}

func TestComputeUnknownType(t *testing.T) {
	_, err := Compute(dec("10"), Type("weighted"), []string{"alice"}, nil)
	if !ledger.IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown type, got %v", err)
	}
}
