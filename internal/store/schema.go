package store

import (
	"context"
	"fmt"
)

// Schema DDL shared by both drivers: text ids generated application-side,
// plain TIMESTAMP columns, and the index set the query paths depend on.
// The unique index on users.subject is what makes first-contact user
// creation race-safe (insert-on-conflict-do-nothing, then re-read).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		subject    TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		name       TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_subject ON users (subject)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users (email)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users (id),
		name       TEXT NOT NULL,
		color      TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_user ON categories (user_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name ON categories (user_id, name)`,

	`CREATE TABLE IF NOT EXISTS todos (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users (id),
		category_id TEXT REFERENCES categories (id),
		title       TEXT NOT NULL,
		description TEXT,
		completed   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user ON todos (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_completed ON todos (user_id, completed)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_category ON todos (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_category ON todos (user_id, category_id)`,
}

// Migrate applies the schema. Every statement is idempotent, so running it
// against an already-migrated database is a no-op.
func Migrate(ctx context.Context, db DBExecutor) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
