// Package sqlite provides a durable, SQLite-backed queue for crash-safe
// scheduling state. Each queue lives in its own database file, one file
// per (slot, priority level).
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/fwojciec/schedq"
)

// Compile-time interface verification.
var _ schedq.Queue = (*Queue)(nil)

// Queue is a durable schedq.Queue backed by a single SQLite file.
// FIFO pops the lowest rowid, LIFO the highest.
type Queue struct {
	db    *sql.DB
	path  string
	order schedq.Order
	size  int
}

// OpenQueue opens the queue file at path, creating it when absent and
// resuming its contents when it already exists.
func OpenQueue(path string, order schedq.Order) (*Queue, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, schedq.Errorf(schedq.ESTORAGE, "open queue %q: %v", path, err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	db.SetMaxOpenConns(1)

	// WAL keeps writes fast and the main file consistent across crashes.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, schedq.Errorf(schedq.ESTORAGE, "enable WAL on %q: %v", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			slot TEXT NOT NULL DEFAULT '',
			meta TEXT NOT NULL DEFAULT '{}'
		)
	`); err != nil {
		db.Close()
		return nil, schedq.Errorf(schedq.ESTORAGE, "create schema in %q: %v", path, err)
	}

	q := &Queue{db: db, path: path, order: order}
	if err := db.QueryRow("SELECT COUNT(*) FROM requests").Scan(&q.size); err != nil {
		db.Close()
		return nil, schedq.Errorf(schedq.ESTORAGE, "count entries in %q: %v", path, err)
	}
	return q, nil
}

func (q *Queue) Push(r *schedq.Request) error {
	meta := "{}"
	if len(r.Meta) > 0 {
		b, err := json.Marshal(r.Meta)
		if err != nil {
			return schedq.Errorf(schedq.EINTERNAL, "encode request meta: %v", err)
		}
		meta = string(b)
	}
	_, err := q.db.Exec(
		"INSERT INTO requests (url, priority, slot, meta) VALUES (?, ?, ?, ?)",
		r.URL, r.Priority, r.Slot, meta,
	)
	if err != nil {
		return schedq.Errorf(schedq.ESTORAGE, "push to %q: %v", q.path, err)
	}
	q.size++
	return nil
}

func (q *Queue) Pop() (*schedq.Request, error) {
	dir := "ASC"
	if q.order == schedq.LIFO {
		dir = "DESC"
	}

	var (
		id   int64
		r    schedq.Request
		meta string
	)
	err := q.db.QueryRow(
		"SELECT id, url, priority, slot, meta FROM requests ORDER BY id "+dir+" LIMIT 1",
	).Scan(&id, &r.URL, &r.Priority, &r.Slot, &meta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, schedq.Errorf(schedq.ESTORAGE, "pop from %q: %v", q.path, err)
	}

	if meta != "{}" {
		m := make(map[string]string)
		if err := json.Unmarshal([]byte(meta), &m); err != nil {
			return nil, schedq.Errorf(schedq.ESTORAGE, "decode request meta in %q: %v", q.path, err)
		}
		r.Meta = m
	}

	if _, err := q.db.Exec("DELETE FROM requests WHERE id = ?", id); err != nil {
		return nil, schedq.Errorf(schedq.ESTORAGE, "remove popped entry from %q: %v", q.path, err)
	}
	q.size--
	return &r, nil
}

func (q *Queue) Len() int {
	return q.size
}

// Close closes the database. When nothing is pending the backing file is
// removed, so a resume snapshot never points at an empty queue.
func (q *Queue) Close() error {
	empty := q.size == 0
	if err := q.db.Close(); err != nil {
		return schedq.Errorf(schedq.ESTORAGE, "close queue %q: %v", q.path, err)
	}
	if !empty {
		return nil
	}
	if err := os.Remove(q.path); err != nil && !os.IsNotExist(err) {
		return schedq.Errorf(schedq.ESTORAGE, "remove empty queue %q: %v", q.path, err)
	}
	// WAL side files, if any.
	_ = os.Remove(q.path + "-wal")
	_ = os.Remove(q.path + "-shm")
	return nil
}
