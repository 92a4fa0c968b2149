// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package syncmap

import (
	"testing"

	"filmgate/internal/testutil"
)

func TestMap(t *testing.T) {
	t.Parallel()

	var m Map[int64, string]

	_, ok := m.Load(1)
	testutil.AssertEqual(t, ok, false)

	m.Store(1, "one")
	m.Store(2, "two")

	v, ok := m.Load(1)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, "one")

	got := make(map[int64]string)
	m.Range(func(k int64, v string) bool {
		got[k] = v
		return true
	})
	testutil.AssertEqual(t, got, map[int64]string{1: "one", 2: "two"})

	m.Delete(1)
	_, ok = m.Load(1)
	testutil.AssertEqual(t, ok, false)
}
