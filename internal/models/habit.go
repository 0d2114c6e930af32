package models

// HabitFrequency is how often a habit is meant to recur.
type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
	FrequencyCustom  HabitFrequency = "custom"
	FrequencyNone    HabitFrequency = "none"
)

// Valid reports whether f is a known frequency.
func (f HabitFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom, FrequencyNone:
		return true
	}
	return false
}

// Habit is a recurring activity tracked on a board.
type Habit struct {
	// ID is the unique identifier for the habit (UUID format).
	ID string

	// BoardID is the board this habit belongs to.
	BoardID string

	Name        string
	Description string

	// Frequency defaults to FrequencyNone.
	Frequency HabitFrequency

	// IsActive marks whether the habit is currently tracked.
	IsActive bool

	CreatedAt int64
	UpdatedAt int64
}
