package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"imgctool/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStats summarizes an exported database.
type SQLiteStats struct {
	Categories int `json:"categories"`
	Checkboxes int `json:"checkboxes"`
	Files      int `json:"files"`
	Tags       int `json:"tags"`
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteExport(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteExport(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			pos INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS checkboxes (
			global_index INTEGER PRIMARY KEY,
			category_pos INTEGER NOT NULL REFERENCES categories(pos) ON DELETE CASCADE,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checkboxes_category ON checkboxes(category_pos);`,
		`CREATE TABLE IF NOT EXISTS files (
			pos INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS tags (
			file_pos INTEGER NOT NULL REFERENCES files(pos) ON DELETE CASCADE,
			global_index INTEGER NOT NULL REFERENCES checkboxes(global_index) ON DELETE CASCADE,
			PRIMARY KEY (file_pos, global_index)
		);`,
		`CREATE VIEW IF NOT EXISTS tagged_files AS
			SELECT f.path AS path, c.name AS category, b.name AS checkbox
			FROM tags t
			JOIN files f ON f.pos = t.file_pos
			JOIN checkboxes b ON b.global_index = t.global_index
			JOIN categories c ON c.pos = b.category_pos;`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// ExportSQLite replaces the contents of the database at path with st.
func ExportSQLite(ctx context.Context, path string, st *model.Store) error {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, tbl := range []string{"tags", "files", "checkboxes", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+tbl); err != nil {
			return err
		}
	}

	global := 0
	for ci, c := range st.Categories() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(pos, name) VALUES(?, ?)`, ci, c.Name); err != nil {
			return err
		}
		for bi, b := range c.Checkboxes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO checkboxes(global_index, category_pos, pos, name) VALUES(?, ?, ?, ?)`,
				global, ci, bi, b,
			); err != nil {
				return err
			}
			global++
		}
	}

	for fi, f := range st.Files() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO files(pos, path) VALUES(?, ?)`, fi, f.Path); err != nil {
			return err
		}
		for _, g := range f.Tags.Indices() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags(file_pos, global_index) VALUES(?, ?)`, fi, g); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func SQLiteSummary(ctx context.Context, path string) (SQLiteStats, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return SQLiteStats{}, err
	}
	defer db.Close()

	var out SQLiteStats
	counts := []struct {
		table string
		dst   *int
	}{
		{"categories", &out.Categories},
		{"checkboxes", &out.Checkboxes},
		{"files", &out.Files},
		{"tags", &out.Tags},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return SQLiteStats{}, err
		}
	}
	return out, nil
}

// TaggedPathsSQLite lists paths tagged with category/checkbox in file order.
func TaggedPathsSQLite(ctx context.Context, path, category, checkbox string) ([]string, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT f.path
		FROM tags t
		JOIN files f ON f.pos = t.file_pos
		JOIN checkboxes b ON b.global_index = t.global_index
		JOIN categories c ON c.pos = b.category_pos
		WHERE c.name = ? AND b.name = ?
		ORDER BY f.pos ASC`, category, checkbox)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
