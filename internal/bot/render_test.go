// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package bot

import (
	"fmt"
	"testing"

	"filmgate/internal/store"
)

func TestCatalogKeyboard(t *testing.T) {
	t.Parallel()

	// For every catalog size and page, the keyboard must hold exactly the
	// window's videos plus correct navigation: a previous control on every
	// page but the first, a next control iff more videos follow the window.
	for total := range 13 {
		for page := range 4 {
			name := fmt.Sprintf("total=%d,page=%d", total, page)

			window := min(pageSize, max(0, total-page*pageSize))
			var videos []*store.Video
			for i := range window {
				videos = append(videos, &store.Video{
					ID:    fmt.Sprintf("id%d", i),
					Title: fmt.Sprintf("Video %d", i),
				})
			}

			rows := catalogKeyboard(videos, page, total)

			wantPrev := page > 0
			wantNext := (page+1)*pageSize < total

			wantRows := window
			if wantPrev || wantNext {
				wantRows++
			}
			if len(rows) != wantRows {
				t.Fatalf("%s: got %d rows, want %d", name, len(rows), wantRows)
			}

			for i := range window {
				if len(rows[i]) != 1 || rows[i][0].CallbackData != "video_"+videos[i].ID {
					t.Fatalf("%s: row %d = %v, want a single %q button", name, i, rows[i], "video_"+videos[i].ID)
				}
			}

			var gotPrev, gotNext bool
			if wantPrev || wantNext {
				for _, btn := range rows[len(rows)-1] {
					switch btn.CallbackData {
					case fmt.Sprintf("page_%d", page-1):
						gotPrev = true
					case fmt.Sprintf("page_%d", page+1):
						gotNext = true
					default:
						t.Fatalf("%s: unexpected nav button %v", name, btn)
					}
				}
			}
			if gotPrev != wantPrev || gotNext != wantNext {
				t.Fatalf("%s: nav prev=%v next=%v, want prev=%v next=%v", name, gotPrev, gotNext, wantPrev, wantNext)
			}
		}
	}
}

func TestDeepLink(t *testing.T) {
	t.Parallel()

	b := &Bot{botUsername: "filmgate_bot"}
	if got, want := b.deepLink("abc"), "https://t.me/filmgate_bot?start=video_abc"; got != want {
		t.Fatalf("deepLink() = %q, want %q", got, want)
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		text    string
		wantCmd string
		wantArg string
		wantOK  bool
	}{
		"bare command":        {text: "/start", wantCmd: "start", wantOK: true},
		"with argument":       {text: "/start video_abc", wantCmd: "start", wantArg: "video_abc", wantOK: true},
		"group chat suffix":   {text: "/start@filmgate_bot video_abc", wantCmd: "start", wantArg: "video_abc", wantOK: true},
		"argument is trimmed": {text: "/addoperator  alice_1 ", wantCmd: "addoperator", wantArg: "alice_1", wantOK: true},
		"plain text":          {text: "hello"},
		"lone slash":          {text: "/"},
		"empty":               {text: ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd, arg, ok := command(tc.text)
			if cmd != tc.wantCmd || arg != tc.wantArg || ok != tc.wantOK {
				t.Fatalf("command(%q) = %q, %q, %v; want %q, %q, %v", tc.text, cmd, arg, ok, tc.wantCmd, tc.wantArg, tc.wantOK)
			}
		})
	}
}
