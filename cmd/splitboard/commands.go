package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/splitboard/splitboard/internal/models"
	"github.com/splitboard/splitboard/internal/service"
	"github.com/splitboard/splitboard/internal/split"
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "Email address")

	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardCreateCmd)
	boardCreateCmd.Flags().String("description", "", "Board description")
	boardCreateCmd.Flags().String("creator", "", "Username of the board creator")
	boardCreateCmd.MarkFlagRequired("creator")
	boardCmd.AddCommand(boardListCmd)
	boardListCmd.Flags().String("user", "", "Username to list boards for")
	boardListCmd.MarkFlagRequired("user")
	boardCmd.AddCommand(boardAddMemberCmd)

	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd)
	habitAddCmd.Flags().String("description", "", "Habit description")
	habitAddCmd.Flags().String("frequency", "none", "daily, weekly, monthly, custom or none")
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitPauseCmd)
	habitCmd.AddCommand(habitResumeCmd)

	rootCmd.AddCommand(expenseCmd)
	expenseCmd.AddCommand(expenseAddCmd)
	expenseAddCmd.Flags().String("payer", "", "Username of the payer")
	expenseAddCmd.MarkFlagRequired("payer")
	expenseAddCmd.Flags().String("amount", "", "Expense total, e.g. 90.00")
	expenseAddCmd.MarkFlagRequired("amount")
	expenseAddCmd.Flags().String("type", "equal", "Split type: equal, amount or percentage")
	expenseAddCmd.Flags().String("category", "", "Category ID")
	expenseAddCmd.Flags().String("description", "", "Expense description")
	expenseAddCmd.Flags().String("date", "", "Expense date (YYYY-MM-DD, default today)")
	expenseAddCmd.Flags().StringArray("split", nil,
		"Split entry, repeatable: USERNAME for equal, USERNAME=VALUE for amount/percentage")
	expenseCmd.AddCommand(expenseUpdateCmd)
	expenseUpdateCmd.Flags().String("amount", "", "New expense total")
	expenseUpdateCmd.Flags().String("type", "", "New split type")
	expenseUpdateCmd.Flags().String("category", "", "New category ID")
	expenseUpdateCmd.Flags().String("description", "", "New description")
	expenseUpdateCmd.Flags().String("date", "", "New date (YYYY-MM-DD)")
	expenseUpdateCmd.Flags().StringArray("split", nil, "New split entries (see expense add)")

	rootCmd.AddCommand(balancesCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Register a user (also provisions their default board)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		user, err := boards.CreateUser(cmd.Context(), args[0], email)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage boards and memberships",
}

var boardCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		creatorName, _ := cmd.Flags().GetString("creator")
		creator, err := boards.GetUserByUsername(cmd.Context(), creatorName)
		if err != nil {
			return err
		}
		board, err := boards.CreateBoard(cmd.Context(), args[0], description, creator.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Created board %q (%s)\n", board.Name, board.ID)
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		user, err := boards.GetUserByUsername(cmd.Context(), username)
		if err != nil {
			return err
		}
		list, err := boards.BoardsForUser(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		for _, b := range list {
			fmt.Printf("%s  %s\n", b.ID, b.Name)
		}
		return nil
	},
}

var boardAddMemberCmd = &cobra.Command{
	Use:   "add-member BOARD_ID USERNAME",
	Short: "Add a user to a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := boards.GetUserByUsername(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if err := boards.AddMember(cmd.Context(), args[0], user.ID); err != nil {
			return err
		}
		fmt.Printf("Added %s to board %s\n", user.Username, args[0])
		return nil
	},
}

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage board habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add BOARD_ID NAME",
	Short: "Add a habit to a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		frequency, _ := cmd.Flags().GetString("frequency")
		habit, err := boards.CreateHabit(cmd.Context(), args[0], args[1], description, models.HabitFrequency(frequency))
		if err != nil {
			return err
		}
		fmt.Printf("Created habit %q (%s)\n", habit.Name, habit.ID)
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list BOARD_ID",
	Short: "List a board's habits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := boards.Habits(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, h := range list {
			status := "active"
			if !h.IsActive {
				status = "paused"
			}
			fmt.Printf("%s  %-20s %-8s %s\n", h.ID, h.Name, h.Frequency, status)
		}
		return nil
	},
}

var habitPauseCmd = &cobra.Command{
	Use:   "pause HABIT_ID",
	Short: "Deactivate a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		habit, err := boards.SetHabitActive(cmd.Context(), args[0], false)
		if err != nil {
			return err
		}
		fmt.Printf("Paused habit %q\n", habit.Name)
		return nil
	},
}

var habitResumeCmd = &cobra.Command{
	Use:   "resume HABIT_ID",
	Short: "Reactivate a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		habit, err := boards.SetHabitActive(cmd.Context(), args[0], true)
		if err != nil {
			return err
		}
		fmt.Printf("Resumed habit %q\n", habit.Name)
		return nil
	},
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage board expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add BOARD_ID",
	Short: "Add an expense and split it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payerName, _ := cmd.Flags().GetString("payer")
		payer, err := boards.GetUserByUsername(cmd.Context(), payerName)
		if err != nil {
			return err
		}
		amountStr, _ := cmd.Flags().GetString("amount")
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}
		typeStr, _ := cmd.Flags().GetString("type")
		splitType := split.Type(typeStr)

		splitFlags, _ := cmd.Flags().GetStringArray("split")
		splits, err := parseSplitFlags(cmd.Context(), splitType, splitFlags)
		if err != nil {
			return err
		}

		req := service.CreateExpenseRequest{
			BoardID:   args[0],
			PayerID:   payer.ID,
			Amount:    amount,
			SplitType: splitType,
			Splits:    splits,
		}
		req.CategoryID, _ = cmd.Flags().GetString("category")
		req.Description, _ = cmd.Flags().GetString("description")
		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			if req.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}
		}

		expense, err := expenses.CreateExpense(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Created expense %s: %s split %s\n", expense.ID, expense.Amount, expense.SplitType)
		return nil
	},
}

var expenseUpdateCmd = &cobra.Command{
	Use:   "update EXPENSE_ID",
	Short: "Update an expense, recomputing splits when needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req service.UpdateExpenseRequest

		if amountStr, _ := cmd.Flags().GetString("amount"); amountStr != "" {
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}
			req.Amount = &amount
		}
		splitType := split.Type("")
		if typeStr, _ := cmd.Flags().GetString("type"); typeStr != "" {
			splitType = split.Type(typeStr)
			req.SplitType = &splitType
		}
		if category, _ := cmd.Flags().GetString("category"); category != "" {
			req.CategoryID = &category
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			req.Description = &description
		}
		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}
			req.Date = &date
		}
		if splitFlags, _ := cmd.Flags().GetStringArray("split"); len(splitFlags) > 0 {
			typ := splitType
			if typ == "" {
				existing, _, err := expenses.GetExpense(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				typ = existing.SplitType
			}
			splits, err := parseSplitFlags(cmd.Context(), typ, splitFlags)
			if err != nil {
				return err
			}
			req.Splits = splits
		}

		expense, err := expenses.UpdateExpense(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		fmt.Printf("Updated expense %s: %s split %s\n", expense.ID, expense.Amount, expense.SplitType)
		return nil
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances BOARD_ID",
	Short: "Show each member's net position in a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := boards.Members(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		balances, err := expenses.BoardBalances(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		names := make(map[string]string, len(members))
		for _, m := range members {
			names[m.ID] = m.Username
		}
		ids := make([]string, 0, len(balances))
		for id := range balances {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return names[ids[i]] < names[ids[j]] })

		fmt.Printf("%-20s %12s %12s %12s\n", "MEMBER", "PAID", "OWED", "BALANCE")
		for _, id := range ids {
			b := balances[id]
			name := names[id]
			if name == "" {
				name = id
			}
			fmt.Printf("%-20s %12s %12s %12s\n", name, b.Paid.StringFixed(2), b.Owed.StringFixed(2), b.Net.StringFixed(2))
		}
		return nil
	},
}

// parseSplitFlags turns repeated --split flags into service split inputs.
// Equal splits take bare usernames; amount and percentage splits take
// USERNAME=VALUE pairs.
func parseSplitFlags(ctx context.Context, typ split.Type, flags []string) ([]service.SplitInput, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	inputs := make([]service.SplitInput, 0, len(flags))
	for _, flag := range flags {
		name, value, hasValue := strings.Cut(flag, "=")
		user, err := boards.GetUserByUsername(ctx, name)
		if err != nil {
			return nil, err
		}

		in := service.SplitInput{UserID: user.ID}
		if hasValue {
			v, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("invalid split value %q: %w", flag, err)
			}
			switch typ {
			case split.TypePercentage:
				in.Percent = &v
			default:
				in.Share = &v
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
