package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/safestorage/internal/common"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewStore(db), mock, db
}

func TestExists_True(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\)\s*$`
	mock.ExpectQuery(q).
		WithArgs("UserA").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.Exists(context.Background(), "UserA")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatal("expected exists=true")
	}
}

func TestExists_DBError(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("UserA").
		WillReturnError(errors.New("db down"))

	_, err := s.Exists(context.Background(), "UserA")
	if !errors.Is(err, common.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestAppend_Success(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*password_digest\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(username\)\s+DO\s+NOTHING\s*$`
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "UserA", "digest-a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Append(context.Background(), "UserA", "digest-a"); err != nil {
		t.Fatalf("Append error: %v", err)
	}
}

func TestAppend_Duplicate(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs(sqlmock.AnyArg(), "UserA", "digest-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Append(context.Background(), "UserA", "digest-a")
	if !errors.Is(err, common.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestLookup_Found(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+password_digest\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("UserA").
		WillReturnRows(sqlmock.NewRows([]string{"password_digest"}).AddRow("digest-a"))

	digest, err := s.Lookup(context.Background(), "UserA")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if digest != "digest-a" {
		t.Fatalf("unexpected digest: %q", digest)
	}
}

func TestLookup_NotFound(t *testing.T) {
	s, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+password_digest`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Lookup(context.Background(), "ghost")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	s, _, db := newStoreWithMock(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if dir != "." {
			t.Fatalf("unexpected migrations dir: %q", dir)
		}
		return nil
	}

	if err := s.runMigrations(context.Background()); err != nil {
		t.Fatalf("runMigrations error: %v", err)
	}
	if !called {
		t.Fatal("goose.UpContext not invoked")
	}
}
