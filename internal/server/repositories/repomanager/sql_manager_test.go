package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/balances"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/events"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(Postgres)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Dialect() != Postgres {
		t.Fatalf("dialect = %q", m.Dialect())
	}
	if _, err := NewRepositoryManager("mysql"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: SQLite}

	var _ users.Repository = m.Users(db)
	var _ tasks.Repository = m.Tasks(db)
	var _ events.Repository = m.Events(db)
	var _ balances.Repository = m.Balances(db)

	if m.Users(db) == nil || m.Tasks(db) == nil || m.Events(db) == nil || m.Balances(db) == nil {
		t.Fatal("nil repository")
	}
}

func TestRunMigrations_UsesDialectDir(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	defer func() { gooseUpContext = orig }()

	for _, d := range []Dialect{Postgres, SQLite} {
		m := &SQLRepositoryManager{dialect: d}
		if err := m.RunMigrations(context.Background(), db); err != nil {
			t.Fatalf("RunMigrations(%s) error: %v", d, err)
		}
		if gotDir != string(d) {
			t.Fatalf("dir = %q, want %q", gotDir, d)
		}
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLRepositoryManager{dialect: Postgres}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRunMigrations_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, m, err := Open(context.Background(), "sqlite://"+path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	for _, table := range []string{"users", "tasks", "events", "balances"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect Dialect
		wantErr bool
	}{
		{"postgres://u:p@localhost:5432/ledger?sslmode=disable", Postgres, false},
		{"postgresql://localhost/ledger", Postgres, false},
		{"sqlite:///tmp/ledger.db", SQLite, false},
		{"ledger.db", SQLite, false},
		{"", "", true},
		{"sqlite://", "", true},
	}
	for _, tt := range tests {
		d, src, err := ParseDSN(tt.dsn)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDSN(%q): expected error", tt.dsn)
			}
			continue
		}
		if err != nil || d != tt.dialect {
			t.Fatalf("ParseDSN(%q) = %q, %v", tt.dsn, d, err)
		}
		if d == SQLite && !strings.Contains(src, "busy_timeout") {
			t.Fatalf("sqlite source missing pragmas: %q", src)
		}
		if d == Postgres && src != tt.dsn {
			t.Fatalf("postgres source rewritten: %q", src)
		}
	}
}

func TestOpen_SQLOpenError(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("driver = %q", driverName)
		}
		return nil, errors.New("no driver")
	}
	defer func() { sqlOpen = orig }()

	if _, _, err := Open(context.Background(), "postgres://localhost/x"); err == nil {
		t.Fatal("expected error")
	}
}
