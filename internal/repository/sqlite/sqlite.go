package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and hands out the repositories built on it.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// WAL mode, foreign keys and a busy timeout are set on every connection
// through the DSN so cascading deletes hold regardless of pool churn.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer; a single connection serializes transactions.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Wrap adopts an already opened handle.
func Wrap(db *sql.DB) *DB {
	return &DB{SqlDB: db}
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return NewUserRepository(db)
}

func (db *DB) Jobs() domain.JobRepository {
	return &jobRepo{db: db.SqlDB}
}

func (db *DB) Comments() domain.CommentRepository {
	return &commentRepo{db: db.SqlDB}
}

func (db *DB) FileStore() domain.FileStore {
	return &fileStore{db: db.SqlDB}
}

type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation returns the "table.column" named by a SQLite unique
// constraint failure, or "" for any other error.
func uniqueViolation(err error) string {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	col := msg[i+len(marker):]
	if j := strings.IndexAny(col, " ,)"); j >= 0 {
		col = col[:j]
	}
	return col
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
