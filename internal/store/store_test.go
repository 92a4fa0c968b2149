// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"filmgate/internal/testutil"
)

func TestMem(t *testing.T) {
	t.Parallel()
	testStore(t, NewMem())
}

func TestSQLite(t *testing.T) {
	t.Parallel()

	s, err := OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	testStore(t, s)
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	// The catalog starts empty.
	videos, total, err := s.Videos(ctx, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, total, 0)
	testutil.AssertEqual(t, len(videos), 0)

	// Create a few videos and check that IDs round-trip.
	const n = 7
	var created []*Video
	for i := range n {
		v, err := s.CreateVideo(ctx, fmt.Sprintf("Video %d", i), fmt.Sprintf("file%d", i))
		if err != nil {
			t.Fatal(err)
		}
		if v.ID == "" {
			t.Fatal("CreateVideo assigned an empty ID")
		}
		created = append(created, v)
	}

	got, err := s.VideoByID(ctx, created[3].ID)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got.Title, "Video 3")
	testutil.AssertEqual(t, got.FileID, "file3")

	if _, err := s.VideoByID(ctx, "01BXNOSUCHVIDEO0000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("VideoByID() error = %v, want ErrNotFound", err)
	}

	// Page reads are newest-first windows over the whole catalog.
	videos, total, err = s.Videos(ctx, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, total, n)
	testutil.AssertEqual(t, titles(videos), []string{"Video 6", "Video 5", "Video 4", "Video 3", "Video 2"})

	videos, total, err = s.Videos(ctx, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, total, n)
	testutil.AssertEqual(t, titles(videos), []string{"Video 1", "Video 0"})

	// A window entirely past the end is empty, not an error.
	videos, _, err = s.Videos(ctx, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, len(videos), 0)

	recent, err := s.RecentTitles(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, recent, []string{"Video 6", "Video 5", "Video 4"})

	// Operator lookups and upsert idempotence.
	ok, err := s.IsOperator(ctx, 42, "")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, ok, false)

	for range 2 {
		if err := s.AddOperator(ctx, Operator{UserID: 42}); err != nil {
			t.Fatal(err)
		}
		if err := s.AddOperator(ctx, Operator{Username: "alice1"}); err != nil {
			t.Fatal(err)
		}
	}

	ok, err = s.IsOperator(ctx, 42, "")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, ok, true)

	ok, err = s.IsOperator(ctx, 7, "alice1")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, ok, true)

	// Username matching is exact: no match on the empty string or a stranger.
	ok, err = s.IsOperator(ctx, 7, "")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, ok, false)

	ok, err = s.IsOperator(ctx, 7, "mallory1")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, ok, false)
}

func TestMemOperatorsSnapshot(t *testing.T) {
	t.Parallel()

	s := NewMem()
	ctx := context.Background()

	for range 3 {
		if err := s.AddOperator(ctx, Operator{UserID: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddOperator(ctx, Operator{Username: "bob99"}); err != nil {
		t.Fatal(err)
	}

	testutil.AssertEqual(t, s.Operators(), []Operator{{Username: "bob99"}, {UserID: 1}})
}

func TestOperatorString(t *testing.T) {
	t.Parallel()

	testutil.AssertEqual(t, Operator{UserID: 42}.String(), "42")
	testutil.AssertEqual(t, Operator{Username: "alice1"}.String(), "@alice1")
}

func titles(videos []*Video) []string {
	var titles []string
	for _, v := range videos {
		titles = append(titles, v.Title)
	}
	return titles
}
