package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and applies the migrations found in the migrations directory.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	pool, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	scripts, err := readMigrations(migrations)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for i, script := range scripts {
		if _, err := pool.Exec(ctx, script); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return pool, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) ([]byte, error) {
	q := `
	SELECT value FROM kv WHERE key = $1;
	`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{Key: key}
		}
		return nil, fmt.Errorf("failed to scan value: %v", err)
	}

	return value, nil
}

func (r *PostgresRepository) Set(ctx context.Context, key string, value []byte) error {
	q := `
	INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now();
	`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("failed to set value: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	q := `
	DELETE FROM kv WHERE key = $1;
	`
	if _, err := r.pool.Exec(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete value: %v", err)
	}

	return nil
}
