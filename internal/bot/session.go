// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package bot

import (
	"context"
	"time"

	"filmgate/internal/util/syncmap"
)

// Step is a stage of an in-progress multi-step dialogue.
type Step int

const (
	// StepAwaitingTitle: the operator was asked for the title of a new video.
	StepAwaitingTitle Step = iota + 1
	// StepAwaitingVideo: the title is known, the video file is expected next.
	StepAwaitingVideo
	// StepAwaitingOperator: the identity of a new operator is expected.
	StepAwaitingOperator
)

// Session is the ephemeral state of one user's in-progress dialogue. It exists
// only while an operation is incomplete and is removed when the operation
// completes, is abandoned by a top-level command, or idles out.
type Session struct {
	Step Step
	// Title is the pending video title, set once known.
	Title string
}

// Sessions is the per-user dialogue state table. Implementations must be safe
// for concurrent use; racing writes for the same user resolve last-write-wins.
type Sessions interface {
	Get(userID int64) (Session, bool)
	Set(userID int64, s Session)
	Clear(userID int64)
}

type sessionEntry struct {
	session Session
	updated time.Time
}

type memSessions struct {
	ttl time.Duration
	m   syncmap.Map[int64, sessionEntry]
}

// NewSessions returns an in-memory [Sessions] whose entries expire after
// sitting idle for ttl, so abandoned dialogues don't accumulate. A ttl of zero
// disables expiry. The cleanup goroutine exits when ctx is done.
func NewSessions(ctx context.Context, ttl time.Duration) Sessions {
	s := &memSessions{ttl: ttl}
	if ttl > 0 {
		go s.cleanup(ctx)
	}
	return s
}

func (s *memSessions) cleanup(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.m.Range(func(userID int64, e sessionEntry) bool {
				if time.Since(e.updated) > s.ttl {
					s.m.Delete(userID)
				}
				return true
			})
		case <-ctx.Done():
			return
		}
	}
}

func (s *memSessions) Get(userID int64) (Session, bool) {
	e, ok := s.m.Load(userID)
	if !ok {
		return Session{}, false
	}
	// Expire lazily too, so expiry doesn't depend on cleanup timing.
	if s.ttl > 0 && time.Since(e.updated) > s.ttl {
		s.m.Delete(userID)
		return Session{}, false
	}
	return e.session, true
}

func (s *memSessions) Set(userID int64, sess Session) {
	s.m.Store(userID, sessionEntry{session: sess, updated: time.Now()})
}

func (s *memSessions) Clear(userID int64) {
	s.m.Delete(userID)
}
