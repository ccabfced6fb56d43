package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wordsift/wordsift/pkg/words"
)

const recordColumns = `id, word, frequency, created_at, pronunciation, pronunciations, definitions, examples, details_fetched_at`

// Store implements words.Store on a SQLite connection.
type Store struct {
	conn *sql.DB
}

// NewStore wraps an open, migrated connection.
func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// UpsertBySighting inserts the word with frequency 1 or bumps its frequency
// by one. The increment happens inside a single statement, so concurrent
// sightings of the same word serialize in SQLite rather than losing updates.
func (s *Store) UpsertBySighting(ctx context.Context, word string) (*words.Record, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, fmt.Errorf("word must be non-empty")
	}

	query := `INSERT INTO words (id, word, frequency, created_at)
			  VALUES (?, ?, 1, ?)
			  ON CONFLICT(word)
			  DO UPDATE SET frequency = words.frequency + 1
			  RETURNING ` + recordColumns

	row := s.conn.QueryRowContext(ctx, query, uuid.NewString(), word, time.Now().UTC())
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert word %q: %w", word, err)
	}
	return rec, nil
}

// ListAll returns all records ordered by frequency descending.
func (s *Store) ListAll(ctx context.Context) ([]words.Record, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+recordColumns+` FROM words ORDER BY frequency DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []words.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDetails replaces the four detail columns wholesale and stamps
// details_fetched_at. Previously stored detail values do not survive unless
// the caller passes them again.
func (s *Store) UpdateDetails(ctx context.Context, id string, d words.Details) (*words.Record, error) {
	prons, err := json.Marshal(d.Pronunciations)
	if err != nil {
		return nil, fmt.Errorf("encode pronunciations: %w", err)
	}
	defs, err := json.Marshal(d.Definitions)
	if err != nil {
		return nil, fmt.Errorf("encode definitions: %w", err)
	}
	examples, err := json.Marshal(d.Examples)
	if err != nil {
		return nil, fmt.Errorf("encode examples: %w", err)
	}

	res, err := s.conn.ExecContext(ctx,
		`UPDATE words SET pronunciation = ?, pronunciations = ?, definitions = ?, examples = ?, details_fetched_at = ? WHERE id = ?`,
		d.Pronunciation, string(prons), string(defs), string(examples), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update details: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, words.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the record or words.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*words.Record, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM words WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, words.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*words.Record, error) {
	var rec words.Record
	var pron, prons, defs, examples sql.NullString
	var fetchedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.Word, &rec.Frequency, &rec.CreatedAt, &pron, &prons, &defs, &examples, &fetchedAt)
	if err != nil {
		return nil, err
	}
	if pron.Valid {
		rec.Pronunciation = pron.String
	}
	if prons.Valid && prons.String != "" {
		if err := json.Unmarshal([]byte(prons.String), &rec.Pronunciations); err != nil {
			return nil, fmt.Errorf("decode pronunciations: %w", err)
		}
	}
	if defs.Valid && defs.String != "" {
		if err := json.Unmarshal([]byte(defs.String), &rec.Definitions); err != nil {
			return nil, fmt.Errorf("decode definitions: %w", err)
		}
	}
	if examples.Valid && examples.String != "" {
		if err := json.Unmarshal([]byte(examples.String), &rec.Examples); err != nil {
			return nil, fmt.Errorf("decode examples: %w", err)
		}
	}
	if fetchedAt.Valid {
		t := fetchedAt.Time
		rec.DetailsFetchedAt = &t
	}
	return &rec, nil
}
