package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl embed.FS

// DB is the single source of truth for users, wizard states and domain
// records. Every method is one short statement or transaction; nothing is
// cached in memory.
type DB struct {
	*sql.DB
	log *zap.Logger
}

// New opens (or creates) the sqlite database at path and brings its schema
// up to date. Use ":memory:" for a throwaway database.
func New(path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// у sqlite один писатель; одно соединение заодно держит :memory:
	// общей для всех вызовов
	db.SetMaxOpenConns(1)

	d := &DB{DB: db, log: log.Named("storage")}
	if err = d.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return d, nil
}

func (d *DB) bootstrap() error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = d.Exec(string(b))
	return err
}
