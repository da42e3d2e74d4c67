// Package pgstore keeps programs in Postgres, one row per line.
// Lines are ordered by a byte-string key from package linekey, so
// a line can be inserted between two others without renumbering.
package pgstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"scriptc/errors"
	"scriptc/script"
	"scriptc/script/linekey"
)

// Schema creates the table used by Store.
const Schema = `
CREATE TABLE IF NOT EXISTS script_lines (
	script_id bigint NOT NULL,
	line_key  bytea NOT NULL,
	indent    integer NOT NULL,
	items     jsonb NOT NULL,
	PRIMARY KEY (script_id, line_key)
);
`

// ErrNoLine is returned when an insert position names a line
// that is not in the program.
var ErrNoLine = errors.New("no such line")

// ErrConflict is returned when a line key is already taken,
// usually by a concurrent writer.
var ErrConflict = errors.New("line key conflict")

// DB holds methods common to the DB and Tx types in package sql.
type DB interface {
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}

// Store reads and writes programs.
type Store struct {
	db DB
}

// New returns a Store using db.
func New(db DB) *Store {
	return &Store{db: db}
}

// Open connects to the database at url, using the lib/pq driver,
// and creates the schema if needed.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return db, nil
}

// Key names a stored line.
type Key []byte

// Load returns program scriptID with its line keys, in order.
func (s *Store) Load(ctx context.Context, scriptID int64) (*script.Program, []Key, error) {
	const q = `
		SELECT line_key, indent, items FROM script_lines
		WHERE script_id = $1 ORDER BY line_key
	`
	rows, err := s.db.QueryContext(ctx, q, scriptID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query")
	}
	defer rows.Close()

	var (
		keys []Key
		doc  storedProgram
	)
	for rows.Next() {
		var (
			key   []byte
			line  storedLine
			items []byte
		)
		if err := rows.Scan(&key, &line.Indent, &items); err != nil {
			return nil, nil, errors.Wrap(err, "scan")
		}
		line.Items = items
		keys = append(keys, key)
		doc.Lines = append(doc.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "end scan")
	}
	if doc.Lines == nil {
		doc.Lines = []storedLine{}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, errors.Wrap(err)
	}
	prog := new(script.Program)
	if err := json.Unmarshal(b, prog); err != nil {
		return nil, nil, errors.Wrapf(err, "decoding script %d", scriptID)
	}
	return prog, keys, nil
}

// Append adds line after the last line of program scriptID and
// returns its key.
func (s *Store) Append(ctx context.Context, scriptID int64, line script.Line) (Key, error) {
	const q = `SELECT line_key FROM script_lines WHERE script_id = $1 ORDER BY line_key DESC LIMIT 1`
	var last []byte
	err := s.db.QueryRowContext(ctx, q, scriptID).Scan(&last)
	switch {
	case err == sql.ErrNoRows:
		return s.put(ctx, scriptID, linekey.First, line)
	case err != nil:
		return nil, errors.Wrap(err, "finding last line")
	}
	return s.put(ctx, scriptID, linekey.Next(last), line)
}

// Insert adds line between the lines keyed before and after. A
// nil before inserts at the start of the program.
func (s *Store) Insert(ctx context.Context, scriptID int64, before, after Key, line script.Line) (Key, error) {
	if before == nil {
		// keys keep their namespace byte, so the lowest is {0}
		before = Key{0}
	} else if err := s.exists(ctx, scriptID, before); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, scriptID, after); err != nil {
		return nil, err
	}
	key := linekey.Between(before, after)
	if bytes.Compare(key, before) <= 0 {
		return nil, errors.WithDetailf(ErrConflict, "no key between %x and %x", []byte(before), []byte(after))
	}
	return s.put(ctx, scriptID, key, line)
}

// Delete removes the line keyed key.
func (s *Store) Delete(ctx context.Context, scriptID int64, key Key) error {
	const q = `DELETE FROM script_lines WHERE script_id = $1 AND line_key = $2`
	res, err := s.db.ExecContext(ctx, q, scriptID, []byte(key))
	if err != nil {
		return errors.Wrap(err, "delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.WithDetailf(ErrNoLine, "line %x", []byte(key))
	}
	return nil
}

func (s *Store) exists(ctx context.Context, scriptID int64, key Key) error {
	const q = `SELECT EXISTS(SELECT 1 FROM script_lines WHERE script_id = $1 AND line_key = $2)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, scriptID, []byte(key)).Scan(&ok); err != nil {
		return errors.Wrap(err, "looking up line")
	}
	if !ok {
		return errors.WithDetailf(ErrNoLine, "line %x", []byte(key))
	}
	return nil
}

func (s *Store) put(ctx context.Context, scriptID int64, key []byte, line script.Line) (Key, error) {
	items, err := encodeItems(line)
	if err != nil {
		return nil, err
	}
	const q = `INSERT INTO script_lines (script_id, line_key, indent, items) VALUES ($1, $2, $3, $4)`
	_, err = s.db.ExecContext(ctx, q, scriptID, key, line.Indent, items)
	if isUniqueViolation(err) {
		return nil, errors.WithDetailf(ErrConflict, "line %x is taken", key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "insert")
	}
	return key, nil
}

// isUniqueViolation reports whether err is a Postgres unique
// constraint violation.
func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Root(err).(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}

type storedProgram struct {
	Lines []storedLine `json:"lines"`
}

type storedLine struct {
	Indent int             `json:"indent"`
	Items  json.RawMessage `json:"items"`
}

// encodeItems returns the JSON array of line's items, in the
// program interchange format.
func encodeItems(line script.Line) ([]byte, error) {
	b, err := json.Marshal(script.Program{Lines: []script.Line{line}})
	if err != nil {
		return nil, errors.Wrap(err, "encoding line")
	}
	var doc storedProgram
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err)
	}
	return doc.Lines[0].Items, nil
}
