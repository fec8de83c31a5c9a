package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies the migrations found in the migrations directory.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	scripts, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, script := range scripts {
		if _, err := db.ExecContext(ctx, script); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	q := `
	SELECT value FROM kv WHERE key = ?;
	`
	var value []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Key: key}
		}
		return nil, fmt.Errorf("failed to scan value: %v", err)
	}

	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	q := `
	INSERT OR REPLACE INTO kv (key, value, updated_at)
	VALUES (?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set value: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	q := `
	DELETE FROM kv WHERE key = ?;
	`
	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete value: %v", err)
	}

	return nil
}
