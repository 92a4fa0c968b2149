// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package store implements persistent storage of the video catalog and the
// operator list, backed in-memory or by SQLite.
package store

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrNotFound is returned when a requested record doesn't exist.
var ErrNotFound = errors.New("not found")

// Video is a single catalog entry. Videos are immutable after creation and are
// never deleted.
type Video struct {
	// ID is assigned by the store on creation and is stable. It is used in deep
	// links and callback payloads.
	ID string
	// Title is a non-empty, human-readable title.
	Title string
	// FileID is the Telegram file identifier of the underlying media.
	FileID string
	// CreatedAt is the creation timestamp. It is monotonically non-decreasing
	// with ID assignment order and defines the newest-first display order.
	CreatedAt time.Time
}

// Operator identifies a privileged user by numeric Telegram ID, username, or
// both. At least one of the two fields is set. Each field is unique across
// stored operators when present.
type Operator struct {
	UserID   int64
	Username string
}

// String implements the fmt.Stringer interface.
func (op Operator) String() string {
	if op.Username != "" {
		return "@" + op.Username
	}
	return strconv.FormatInt(op.UserID, 10)
}

// Store is the persistent store consumed by the bot.
//
// Page reads are not snapshot-consistent with concurrent CreateVideo calls:
// the total count and the windowed read may disagree by a row in rare races.
type Store interface {
	// CreateVideo assigns an ID and creation timestamp to a new video, persists
	// it and returns it.
	CreateVideo(ctx context.Context, title, fileID string) (*Video, error)
	// VideoByID returns the video with the given ID, or [ErrNotFound].
	VideoByID(ctx context.Context, id string) (*Video, error)
	// Videos returns a newest-first window over the catalog and the total count
	// at read time.
	Videos(ctx context.Context, offset, limit int) ([]*Video, int, error)
	// RecentTitles returns up to limit titles, newest-first.
	RecentTitles(ctx context.Context, limit int) ([]string, error)

	// IsOperator reports whether a stored operator matches the numeric ID or,
	// when non-empty, the username.
	IsOperator(ctx context.Context, userID int64, username string) (bool, error)
	// AddOperator upserts an operator record keyed by whichever field of op is
	// set. Repeated calls with the same identity leave a single record.
	AddOperator(ctx context.Context, op Operator) error

	// Close closes the store and releases any resources.
	Close() error
}
