// Package runstore keeps one row per simulation run in a SQLite table, the
// same row a results spreadsheet collects: calculation name, file locations
// and top-level parameters.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/honeybbq/prmconfig/domain/simlog"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

// Table holds the runs.
const Table = "runs"

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and creates when missing) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, prmerrors.New(prmerrors.KindOutputUnwritable, fmt.Errorf("run store path is required"))
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, prmerrors.New(prmerrors.KindOutputUnwritable, fmt.Errorf("open sqlite: %w", err))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, prmerrors.New(prmerrors.KindOutputUnwritable, fmt.Errorf("ping sqlite: %w", err))
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Header returns the column names of the runs table in order; nil when the
// table does not exist yet.
func (s *Store) Header(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(`+quoteIdent(Table)+`)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		header = append(header, name)
	}
	return header, rows.Err()
}

// Append stores one row. The first row defines the table columns; later rows
// may leave columns out but must not bring new ones. created reports whether
// the table was created by this call.
func (s *Store) Append(ctx context.Context, cols []simlog.Column) (created bool, err error) {
	if len(cols) == 0 {
		return false, prmerrors.Newf(prmerrors.KindInternal, "empty row")
	}
	if a, b, ok := caseCollision(cols); ok {
		return false, prmerrors.Newf(prmerrors.KindConflict,
			"columns %q and %q differ only in case, SQLite cannot keep both", a, b)
	}
	header, err := s.Header(ctx)
	if err != nil {
		return false, fmt.Errorf("read table structure: %w", err)
	}
	if len(header) > 0 {
		if missing := unknownColumns(header, cols); len(missing) > 0 {
			return false, prmerrors.Newf(prmerrors.KindConflict,
				"new parameters do not match existing table structure: %s", strings.Join(missing, ", "))
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	names := make([]string, len(cols))
	args := make([]any, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
		args[i] = c.Value
		marks[i] = "?"
	}
	if len(header) == 0 {
		defs := make([]string, len(names))
		for i, n := range names {
			defs[i] = n + " TEXT"
		}
		if _, err = tx.ExecContext(ctx, `CREATE TABLE `+quoteIdent(Table)+` (`+strings.Join(defs, ", ")+`)`); err != nil {
			return false, fmt.Errorf("create table: %w", err)
		}
		created = true
	}
	insert := `INSERT INTO ` + quoteIdent(Table) + ` (` + strings.Join(names, ", ") + `) VALUES (` + strings.Join(marks, ", ") + `)`
	if _, err = tx.ExecContext(ctx, insert, args...); err != nil {
		return false, fmt.Errorf("insert row: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return created, nil
}

// Rows returns every stored row in insertion order, aligned with Header.
// NULL cells read as "".
func (s *Store) Rows(ctx context.Context) ([][]string, error) {
	header, err := s.Header(ctx)
	if err != nil || len(header) == 0 {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(Table)+` ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SQLite column names are case-insensitive (ASCII only).
func foldName(name string) string {
	return strings.ToLower(name)
}

func caseCollision(cols []simlog.Column) (string, string, bool) {
	seen := make(map[string]string, len(cols))
	for _, c := range cols {
		key := foldName(c.Name)
		if prev, ok := seen[key]; ok {
			return prev, c.Name, true
		}
		seen[key] = c.Name
	}
	return "", "", false
}

func unknownColumns(header []string, cols []simlog.Column) []string {
	known := make(map[string]struct{}, len(header))
	for _, h := range header {
		known[foldName(h)] = struct{}{}
	}
	var missing []string
	for _, c := range cols {
		if _, ok := known[foldName(c.Name)]; !ok {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
