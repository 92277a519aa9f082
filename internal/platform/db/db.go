package db

import (
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported SQL backends. The value doubles as the database/sql driver name.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a config value ("postgres", "sqlite") to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", eris.Errorf("unsupported database driver %q", name)
	}
}

// Open connects to the database and verifies the connection.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "openDB: open %s database", dialect)
	}

	switch dialect {
	case SQLite:
		// One writer; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrapf(err, "openDB: verify %s connection", dialect)
	}

	return db, nil
}
