// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Mem is an in-memory implementation of the [Store] interface, used in tests
// and development.
type Mem struct {
	mu      sync.RWMutex
	videos  []*Video // in creation order, oldest first
	byID    map[string]*Video
	opIDs   map[int64]bool
	opNames map[string]bool
}

// NewMem creates a new empty [Mem].
func NewMem() *Mem {
	return &Mem{
		byID:    make(map[string]*Video),
		opIDs:   make(map[int64]bool),
		opNames: make(map[string]bool),
	}
}

// Close is a no-op for Mem.
func (s *Mem) Close() error { return nil }

// CreateVideo implements the [Store] interface.
func (s *Mem) CreateVideo(_ context.Context, title, fileID string) (*Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &Video{
		ID:        ulid.Make().String(),
		Title:     title,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}
	s.videos = append(s.videos, v)
	s.byID[v.ID] = v
	return v, nil
}

// VideoByID implements the [Store] interface.
func (s *Mem) VideoByID(_ context.Context, id string) (*Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Videos implements the [Store] interface.
func (s *Mem) Videos(_ context.Context, offset, limit int) ([]*Video, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.videos)
	var window []*Video
	for i := total - 1 - offset; i >= 0 && len(window) < limit; i-- {
		window = append(window, s.videos[i])
	}
	return window, total, nil
}

// RecentTitles implements the [Store] interface.
func (s *Mem) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	videos, _, err := s.Videos(ctx, 0, limit)
	if err != nil {
		return nil, err
	}
	var titles []string
	for _, v := range videos {
		titles = append(titles, v.Title)
	}
	return titles, nil
}

// IsOperator implements the [Store] interface.
func (s *Mem) IsOperator(_ context.Context, userID int64, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.opIDs[userID] {
		return true, nil
	}
	return username != "" && s.opNames[username], nil
}

// AddOperator implements the [Store] interface.
func (s *Mem) AddOperator(_ context.Context, op Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if op.UserID != 0 {
		s.opIDs[op.UserID] = true
		return nil
	}
	s.opNames[op.Username] = true
	return nil
}

// Operators returns all stored operator records, for tests.
func (s *Mem) Operators() []Operator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ops []Operator
	for id := range s.opIDs {
		ops = append(ops, Operator{UserID: id})
	}
	for name := range s.opNames {
		ops = append(ops, Operator{Username: name})
	}
	slices.SortFunc(ops, func(a, b Operator) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return strings.Compare(a.Username, b.Username)
	})
	return ops
}

var _ Store = (*Mem)(nil)
