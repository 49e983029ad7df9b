package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// column is an additive schema change for tables created by older builds.
type column struct {
	Table  string
	Column string
	Def    string
}

var pendingColumns = []column{
	{"users", "name", "TEXT NOT NULL DEFAULT ''"},
	{"users", "handle", "TEXT NOT NULL DEFAULT ''"},
	{"users", "role", "TEXT NOT NULL DEFAULT 'USER'"},
	{"users", "active", "INTEGER NOT NULL DEFAULT 1"},
	{"users", "chat_id", "INTEGER NOT NULL DEFAULT 0"},
	{"wizard_states", "updated_at", "INTEGER NOT NULL DEFAULT 0"},
	{"daily_reports", "note", "TEXT"},
	{"daily_reports", "photo_file_id", "TEXT"},
	{"daily_reports", "created_at", "INTEGER NOT NULL DEFAULT 0"},
	{"daily_reports", "updated_at", "INTEGER NOT NULL DEFAULT 0"},
	{"activity_norms", "sleep", "REAL"},
}

// renamedColumns maps legacy column names to their current names. Tables
// carrying a legacy name are rebuilt and their rows copied over.
var renamedColumns = map[string]map[string]string{
	"daily_reports": {"photo": "photo_file_id", "kcal": "calories", "comment": "note"},
	"users":         {"username": "handle"},
}

// renamedSettings maps legacy setting keys to current ones.
var renamedSettings = map[string]string{
	"evening_hour": "evening_time",
}

func (d *DB) migrate() error {
	// Сначала новые колонки: индексы из schema.sql ссылаются на них,
	// а в старых таблицах их может не быть.
	for _, m := range pendingColumns {
		if !tableExists(d.DB, m.Table) || columnExists(d.DB, m.Table, m.Column) {
			continue
		}
		q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("add %s.%s: %w", m.Table, m.Column, err)
		}
		d.log.Info("column added", zap.String("table", m.Table), zap.String("column", m.Column))
	}
	for table, renames := range renamedColumns {
		if err := d.rebuildLegacy(table, renames); err != nil {
			return fmt.Errorf("rebuild %s: %w", table, err)
		}
	}
	if err := d.bootstrap(); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	for legacy, current := range renamedSettings {
		if _, err := d.Exec(`
            UPDATE settings SET value = (SELECT value FROM settings WHERE key = ?)
            WHERE key = ? AND EXISTS (SELECT 1 FROM settings WHERE key = ?)`,
			legacy, current, legacy); err != nil {
			return err
		}
		if _, err := d.Exec(`DELETE FROM settings WHERE key = ?`, legacy); err != nil {
			return err
		}
	}
	// старые сборки хранили только час ("19")
	_, err := d.Exec(`UPDATE settings SET value = printf('%02d:00', CAST(value AS INTEGER))
        WHERE key = 'evening_time' AND instr(value, ':') = 0`)
	return err
}

// rebuildLegacy recreates table from schema.sql when it still has one of
// the legacy column names, copying every column that survives the rename.
func (d *DB) rebuildLegacy(table string, renames map[string]string) error {
	if !tableExists(d.DB, table) {
		return nil
	}
	old, err := columns(d.DB, table)
	if err != nil {
		return err
	}
	legacy := false
	for _, c := range old {
		if _, ok := renames[c]; ok {
			legacy = true
			break
		}
	}
	if !legacy {
		return nil
	}

	backup := table + "_legacy"
	if _, err := d.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", table, backup)); err != nil {
		return err
	}
	// Индексы уезжают вместе с переименованной таблицей; удаляем,
	// чтобы bootstrap создал их заново.
	if err := d.dropIndexes(backup); err != nil {
		return err
	}
	if err := d.bootstrap(); err != nil {
		return err
	}
	current, err := columns(d.DB, table)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(current))
	for _, c := range current {
		have[c] = true
	}

	var src, dst []string
	seen := map[string]bool{}
	for _, c := range old {
		target := c
		if r, ok := renames[c]; ok {
			target = r
		}
		if !have[target] || seen[target] {
			continue
		}
		seen[target] = true
		src = append(src, c)
		dst = append(dst, target)
	}
	if len(src) > 0 {
		q := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) SELECT %s FROM %s",
			table, strings.Join(dst, ", "), strings.Join(src, ", "), backup)
		if _, err := d.Exec(q); err != nil {
			return err
		}
	}
	if _, err := d.Exec("DROP TABLE " + backup); err != nil {
		return err
	}
	d.log.Info("legacy table rebuilt",
		zap.String("table", table), zap.Strings("copied", dst))
	return nil
}

func (d *DB) dropIndexes(table string) error {
	rows, err := d.Query(`SELECT name FROM sqlite_master
        WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL`, table)
	if err != nil {
		return err
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return err
		}
		names = append(names, n)
	}
	rows.Close()
	for _, n := range names {
		if _, err := d.Exec("DROP INDEX IF EXISTS " + n); err != nil {
			return err
		}
	}
	return nil
}

func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	return err == nil
}

func columnExists(db *sql.DB, table, column string) bool {
	cols, err := columns(db, table)
	if err != nil {
		return false
	}
	for _, c := range cols {
		if c == column {
			return true
		}
	}
	return false
}

// columns lists the column names of table in declaration order.
func columns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, rows.Err()
}
