// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// SQLite is a SQLite implementation of the [Store] interface.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating it if necessary) a SQLite database at the given
// path and prepares the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			file_id TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS videos_by_created_at ON videos (created_at DESC, id DESC);

		CREATE TABLE IF NOT EXISTS operators (
			user_id INTEGER UNIQUE,
			username TEXT UNIQUE,
			CHECK (user_id IS NOT NULL OR username IS NOT NULL)
		);
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// CreateVideo implements the [Store] interface.
func (s *SQLite) CreateVideo(ctx context.Context, title, fileID string) (*Video, error) {
	v := &Video{
		ID:        ulid.Make().String(),
		Title:     title,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (id, title, file_id, created_at) VALUES (?, ?, ?, ?);
	`, v.ID, v.Title, v.FileID, v.CreatedAt.UnixMilli()); err != nil {
		return nil, err
	}
	return v, nil
}

// VideoByID implements the [Store] interface.
func (s *SQLite) VideoByID(ctx context.Context, id string) (*Video, error) {
	v := &Video{ID: id}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT title, file_id, created_at FROM videos WHERE id = ?;
	`, id).Scan(&v.Title, &v.FileID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.CreatedAt = time.UnixMilli(createdAt).UTC()
	return v, nil
}

// Videos implements the [Store] interface.
func (s *SQLite) Videos(ctx context.Context, offset, limit int) ([]*Video, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos;`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, file_id, created_at FROM videos
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?;
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		v := new(Video)
		var createdAt int64
		if err := rows.Scan(&v.ID, &v.Title, &v.FileID, &createdAt); err != nil {
			return nil, 0, err
		}
		v.CreatedAt = time.UnixMilli(createdAt).UTC()
		videos = append(videos, v)
	}
	return videos, total, rows.Err()
}

// RecentTitles implements the [Store] interface.
func (s *SQLite) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title FROM videos ORDER BY created_at DESC, id DESC LIMIT ?;
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// IsOperator implements the [Store] interface.
func (s *SQLite) IsOperator(ctx context.Context, userID int64, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM operators WHERE user_id = ?1 OR (?2 <> '' AND username = ?2)
		);
	`, userID, username).Scan(&exists)
	return exists, err
}

// AddOperator implements the [Store] interface.
func (s *SQLite) AddOperator(ctx context.Context, op Operator) error {
	if op.UserID != 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO operators (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING;
		`, op.UserID)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operators (username) VALUES (?) ON CONFLICT (username) DO NOTHING;
	`, op.Username)
	return err
}

var _ Store = (*SQLite)(nil)
