// Package postgres is the indexed alternative to the ledger-file credential
// store. It exists for deployments where the linear scan stops being
// acceptable; the auth service is oblivious to the swap.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/credentials/postgres/migrations"
)

// Store implements credentials.Store on top of PostgreSQL. Uniqueness is
// enforced by the unique index on username, so concurrent Appends of the
// same name resolve in the database rather than in process memory.
type Store struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing RunMigrations without a database.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewStore wraps an already-open database handle. Most callers should use
// Open instead.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the given DSN, applies embedded schema migrations, and
// returns a ready Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := NewStore(db)
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: exists query: %v", common.ErrStorageFailure, err)
	}
	return exists, nil
}

func (s *Store) Append(ctx context.Context, username, digest string) error {
	query :=
		`INSERT INTO users (id, username, password_digest)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, uuid.New(), username, digest)
	if err != nil {
		return fmt.Errorf("%w: insert user: %v", common.ErrStorageFailure, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrStorageFailure, err)
	}
	if rows == 0 {
		return common.ErrUserAlreadyExists
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, username string) (string, error) {
	query := `SELECT password_digest FROM users WHERE username = $1`

	var digest string
	err := s.db.QueryRowContext(ctx, query, username).Scan(&digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("%w: lookup query: %v", common.ErrStorageFailure, err)
	}
	return digest, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
