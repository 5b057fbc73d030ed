package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	// modernc sqlite does not like concurrent writers on one file.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS user_keywords (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		keyword TEXT NOT NULL,
		PRIMARY KEY (user_id, keyword)
	);

	CREATE TABLE IF NOT EXISTS articles (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		-- The unique constraint here is the authoritative dedup guarantee;
		-- callers pre-check existence but concurrent inserts race.
		url TEXT NOT NULL UNIQUE,
		image_url TEXT,
		published_date TEXT NOT NULL, -- calendar date, YYYY-MM-DD
		source TEXT NOT NULL,
		sent_in_digest BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_articles_unsent
		ON articles(sent_in_digest, published_date);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		source TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
