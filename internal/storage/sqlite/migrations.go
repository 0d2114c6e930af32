package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Users and boards must be
// created before the tables that reference them.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS memberships (
    board_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (board_id, user_id),
    FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS habits (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    frequency TEXT NOT NULL DEFAULT 'none',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    board_id TEXT,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL DEFAULT '💰',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    split_type TEXT NOT NULL DEFAULT 'equal',
    amount TEXT NOT NULL,
    category_id TEXT,
    description TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
    FOREIGN KEY (payer_id) REFERENCES users(id),
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS expense_splits (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    share_amount TEXT NOT NULL,
    percentage TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (expense_id, user_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_memberships_user_id ON memberships(user_id);
CREATE INDEX IF NOT EXISTS idx_habits_board_id ON habits(board_id);
CREATE INDEX IF NOT EXISTS idx_categories_board_id ON categories(board_id);
CREATE INDEX IF NOT EXISTS idx_expenses_board_id ON expenses(board_id);
CREATE INDEX IF NOT EXISTS idx_expenses_payer_id ON expenses(payer_id);
CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id);
CREATE INDEX IF NOT EXISTS idx_expense_splits_user_id ON expense_splits(user_id);
`

// defaultCategories are the global categories available to every board.
// Seeded once; fixed IDs keep the insert idempotent across restarts.
var defaultCategories = []struct {
	id    string
	name  string
	emoji string
}{
	{"c39af6b0-0000-4000-8000-000000000001", "Food", "🍔"},
	{"c39af6b0-0000-4000-8000-000000000002", "Transportation", "🚗"},
	{"c39af6b0-0000-4000-8000-000000000003", "Entertainment", "🎬"},
	{"c39af6b0-0000-4000-8000-000000000004", "Shopping", "🛍️"},
	{"c39af6b0-0000-4000-8000-000000000005", "Utilities", "💡"},
	{"c39af6b0-0000-4000-8000-000000000006", "Other", "📌"},
}

// runMigrations executes the schema setup and seeds the global categories.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	for _, c := range defaultCategories {
		_, err := db.Exec(
			"INSERT OR IGNORE INTO categories (id, board_id, name, emoji, created_at, updated_at) VALUES (?, NULL, ?, ?, 0, 0)",
			c.id, c.name, c.emoji,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
