package store

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists keys and lists in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and bootstraps the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &Error{Op: "open", Key: path, Err: err}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, &Error{Op: "open", Key: path, Err: err}
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS kv(
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS list_items(
			list TEXT NOT NULL,
			pos INTEGER NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY(list, pos)
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, &Error{Op: "migrate", Key: path, Err: err}
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Set(key, value string, ttl time.Duration) error {
	var expiresAt interface{}
	if ttl != NoExpiry {
		expiresAt = time.Now().Add(ttl).Unix()
	}
	_, err := s.db.Exec(
		`INSERT INTO kv(key, value, expires_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, expires_at=excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullInt64
	err := s.db.QueryRow(`SELECT value, expires_at FROM kv WHERE key = ?`, key).
		Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &Error{Op: "get", Key: key, Err: err}
	}
	if expiresAt.Valid && expiresAt.Int64 <= time.Now().Unix() {
		// Expired rows read as absent and are reaped lazily.
		_, _ = s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Exists(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

func (s *SQLiteStore) RPush(key string, values ...string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &Error{Op: "rpush", Key: key, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var next sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(pos) FROM list_items WHERE list = ?`, key).Scan(&next); err != nil {
		return 0, &Error{Op: "rpush", Key: key, Err: err}
	}
	pos := int64(0)
	if next.Valid {
		pos = next.Int64 + 1
	}
	for _, v := range values {
		if _, err := tx.Exec(`INSERT INTO list_items(list, pos, value) VALUES(?, ?, ?)`, key, pos, v); err != nil {
			return 0, &Error{Op: "rpush", Key: key, Err: err}
		}
		pos++
	}
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM list_items WHERE list = ?`, key).Scan(&count); err != nil {
		return 0, &Error{Op: "rpush", Key: key, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &Error{Op: "rpush", Key: key, Err: err}
	}
	return count, nil
}

func (s *SQLiteStore) LRange(key string, start, stop int) ([]string, error) {
	rows, err := s.db.Query(`SELECT value FROM list_items WHERE list = ? ORDER BY pos`, key)
	if err != nil {
		return nil, &Error{Op: "lrange", Key: key, Err: err}
	}
	defer rows.Close()

	var all []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &Error{Op: "lrange", Key: key, Err: err}
		}
		all = append(all, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "lrange", Key: key, Err: err}
	}
	lo, hi, ok := clampRange(start, stop, len(all))
	if !ok {
		return nil, nil
	}
	return all[lo:hi], nil
}

func (s *SQLiteStore) LLen(key string) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM list_items WHERE list = ?`, key).Scan(&count); err != nil {
		return 0, &Error{Op: "llen", Key: key, Err: err}
	}
	return count, nil
}

func (s *SQLiteStore) DeleteList(key string) error {
	if _, err := s.db.Exec(`DELETE FROM list_items WHERE list = ?`, key); err != nil {
		return &Error{Op: "deletelist", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Lists(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT list FROM list_items WHERE list LIKE ? ESCAPE '\' ORDER BY list`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, &Error{Op: "lists", Key: prefix, Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &Error{Op: "lists", Key: prefix, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "lists", Key: prefix, Err: err}
	}
	return names, nil
}

// escapeLike neutralizes LIKE wildcards in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func (s *SQLiteStore) Ping() error {
	if err := s.db.Ping(); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
