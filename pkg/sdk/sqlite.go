package sdk

import (
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteHandle wraps a database/sql handle opened against an
// allow-listed path (spec §4.5 sqlite.open).
type SQLiteHandle struct {
	db *sql.DB
	tx *sql.Tx
}

// SqliteOpen opens path, which must be allow-listed.
func (s *SDK) SqliteOpen(path string) (*SQLiteHandle, bool) {
	if !s.checkPath(path) {
		return nil, false
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		s.Error("sqlite.open: " + err.Error())
		return nil, false
	}
	return &SQLiteHandle{db: db}, true
}

func prefixParams(sqlText string, params map[string]any) (string, []any) {
	named := make([]any, 0, len(params))
	for k, v := range params {
		key := k
		if !strings.HasPrefix(key, ":") {
			key = ":" + key
		}
		named = append(named, sql.Named(strings.TrimPrefix(key, ":"), convertParam(v)))
	}
	return sqlText, named
}

func convertParam(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []byte:
		return hex.EncodeToString(t)
	default:
		return v
	}
}

func (h *SQLiteHandle) querier() interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
} {
	if h.tx != nil {
		return h.tx
	}
	return h.db
}

// Exec runs sqlText and returns rows affected.
func (h *SQLiteHandle) Exec(sqlText string, params map[string]any) (int64, error) {
	text, args := prefixParams(sqlText, params)
	res, err := h.querier().Exec(text, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Query runs sqlText and returns rows as a list of maps, converting
// null/DateTime/bytes per spec §4.5.
func (h *SQLiteHandle) Query(sqlText string, params map[string]any) ([]map[string]any, error) {
	text, args := prefixParams(sqlText, params)
	rows, err := h.querier().Query(text, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = convertScanned(raw[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func convertScanned(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []byte:
		return hex.EncodeToString(t)
	default:
		return t
	}
}

func (h *SQLiteHandle) Begin() error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	h.tx = tx
	return nil
}

func (h *SQLiteHandle) Commit() error {
	if h.tx == nil {
		return nil
	}
	err := h.tx.Commit()
	h.tx = nil
	return err
}

func (h *SQLiteHandle) Rollback() error {
	if h.tx == nil {
		return nil
	}
	err := h.tx.Rollback()
	h.tx = nil
	return err
}

func (h *SQLiteHandle) Close() error {
	return h.db.Close()
}
