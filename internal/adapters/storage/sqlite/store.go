package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/tavle/internal/app"
	"github.com/hylla/tavle/internal/board"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Store persists board columns/cards and the flat preference records behind
// layout persistence. It implements app.BoardSource and app.PreferenceStore.
type Store struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the requested operation.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate handles migrate.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			card_limit INTEGER NOT NULL DEFAULT 0,
			collapsed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			badges_json TEXT NOT NULL DEFAULT '[]',
			cover_image TEXT NOT NULL DEFAULT '',
			fields_json TEXT NOT NULL DEFAULT '{}',
			FOREIGN KEY(column_id) REFERENCES columns(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_column_position ON cards(column_id, position);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// LoadBoard returns every column in position order with its cards in card
// position order.
func (s *Store) LoadBoard(ctx context.Context) ([]board.Column, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, card_limit, collapsed FROM columns ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]board.Column, 0)
	for rows.Next() {
		var (
			col       board.Column
			collapsed int
		)
		if err := rows.Scan(&col.ID, &col.Title, &col.Limit, &collapsed); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.Collapsed = collapsed != 0
		col.Cards = []board.Card{}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	for idx := range columns {
		cards, err := s.loadCards(ctx, columns[idx].ID)
		if err != nil {
			return nil, err
		}
		columns[idx].Cards = cards
	}
	return columns, nil
}

func (s *Store) loadCards(ctx context.Context, columnID string) ([]board.Card, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, badges_json, cover_image, fields_json FROM cards WHERE column_id = ? ORDER BY position ASC`, columnID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]board.Card, 0)
	for rows.Next() {
		var (
			card       board.Card
			badgesJSON string
			fieldsJSON string
		)
		if err := rows.Scan(&card.ID, &card.Title, &card.Description, &badgesJSON, &card.CoverImage, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if err := json.Unmarshal([]byte(badgesJSON), &card.Badges); err != nil {
			card.Badges = nil
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &card.Fields); err != nil {
			card.Fields = nil
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// ReplaceBoard rewrites the stored board wholesale inside one transaction.
func (s *Store) ReplaceBoard(ctx context.Context, columns []board.Column) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace board: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM columns`); err != nil {
		return fmt.Errorf("clear columns: %w", err)
	}
	for colIdx, col := range columns {
		collapsed := 0
		if col.Collapsed {
			collapsed = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO columns(id, title, position, card_limit, collapsed) VALUES(?, ?, ?, ?, ?)`,
			col.ID, col.Title, colIdx, col.Limit, collapsed,
		); err != nil {
			return fmt.Errorf("insert column %s: %w", col.ID, err)
		}
		for cardIdx, card := range col.Cards {
			badgesJSON, err := json.Marshal(card.Badges)
			if err != nil {
				return fmt.Errorf("encode badges: %w", err)
			}
			fieldsJSON, err := json.Marshal(card.Fields)
			if err != nil {
				return fmt.Errorf("encode fields: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cards(id, column_id, position, title, description, badges_json, cover_image, fields_json) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
				card.ID, col.ID, cardIdx, card.Title, card.Description, string(badgesJSON), card.CoverImage, string(fieldsJSON),
			); err != nil {
				return fmt.Errorf("insert card %s: %w", card.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace board: %w", err)
	}
	return nil
}

// MoveCard relocates a stored card into the destination column at the given
// position, shifting neighbor positions so ordering stays dense.
func (s *Store) MoveCard(ctx context.Context, cardID, toColumnID string, position int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move card: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		fromColumnID string
		fromPosition int
	)
	err = tx.QueryRowContext(ctx, `SELECT column_id, position FROM cards WHERE id = ?`, cardID).Scan(&fromColumnID, &fromPosition)
	if errors.Is(err, sql.ErrNoRows) {
		return app.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find card: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET position = position - 1 WHERE column_id = ? AND position > ?`,
		fromColumnID, fromPosition,
	); err != nil {
		return fmt.Errorf("compact source positions: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET position = position + 1 WHERE column_id = ? AND position >= ? AND id <> ?`,
		toColumnID, position, cardID,
	); err != nil {
		return fmt.Errorf("open destination slot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET column_id = ?, position = ? WHERE id = ?`,
		toColumnID, position, cardID,
	); err != nil {
		return fmt.Errorf("move card: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move card: %w", err)
	}
	return nil
}

// SeedIfEmpty stores the given columns only when no board exists yet.
func (s *Store) SeedIfEmpty(ctx context.Context, columns []board.Column) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns`).Scan(&count); err != nil {
		return fmt.Errorf("count columns: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReplaceBoard(ctx, columns)
}

// GetPreference returns the serialized record stored under the key.
func (s *Store) GetPreference(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value_json FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return []byte(value), nil
}

// SetPreference upserts the serialized record under the key.
func (s *Store) SetPreference(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences(key, value_json) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json`,
		key, string(value),
	); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

// DeletePreference removes the record under the key. Missing keys are not an
// error.
func (s *Store) DeletePreference(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}
