package room

import (
	"errors"
	"sort"
	"testing"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

func songs(refs ...string) []model.Song {
	out := make([]model.Song, 0, len(refs))
	for _, r := range refs {
		out = append(out, model.Song{TrackRef: r, Title: r})
	}
	return out
}

func refs(q []model.Song) []string {
	out := make([]string, 0, len(q))
	for _, s := range q {
		out = append(out, s.TrackRef)
	}
	return out
}

func equalRefs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAppendSongs(t *testing.T) {
	q := appendSongs(songs("a"), songs("b", "c"))
	if !equalRefs(refs(q), []string{"a", "b", "c"}) {
		t.Errorf("append order wrong: %v", refs(q))
	}
	if got := appendSongs(q, nil); len(got) != 3 {
		t.Errorf("empty append changed length: %d", len(got))
	}
}

func TestDeleteSong_Rebasing(t *testing.T) {
	testCases := []struct {
		name        string
		queue       []string
		current     int
		index       int
		wantCurrent int
		wantChanged bool
	}{
		{"before current", []string{"a", "b", "c", "d"}, 2, 0, 1, false},
		{"at current mid-queue", []string{"a", "b", "c", "d"}, 2, 2, 2, true},
		{"at current last entry", []string{"a", "b", "c"}, 2, 2, 1, true},
		{"after current", []string{"a", "b", "c", "d"}, 1, 3, 1, false},
		{"only entry", []string{"a"}, 0, 0, 0, true},
	}

	for _, tc := range testCases {
		q, cur, changed, err := deleteSong(songs(tc.queue...), tc.current, tc.index)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if len(q) != len(tc.queue)-1 {
			t.Errorf("%s: length = %d, want %d", tc.name, len(q), len(tc.queue)-1)
		}
		if cur != tc.wantCurrent {
			t.Errorf("%s: current = %d, want %d", tc.name, cur, tc.wantCurrent)
		}
		if changed != tc.wantChanged {
			t.Errorf("%s: trackChanged = %v, want %v", tc.name, changed, tc.wantChanged)
		}
	}
}

func TestDeleteSong_OutOfRange(t *testing.T) {
	for _, index := range []int{-1, 2, 100} {
		_, _, _, err := deleteSong(songs("a", "b"), 0, index)
		if !errors.Is(err, errs.ErrIndexOutOfRange) {
			t.Errorf("delete(%d): err = %v, want ErrIndexOutOfRange", index, err)
		}
	}
}

func TestReorderSong_Rebasing(t *testing.T) {
	testCases := []struct {
		name        string
		current     int
		oldIndex    int
		newIndex    int
		wantOrder   []string
		wantCurrent int
	}{
		{"moved entry was current", 1, 1, 3, []string{"a", "c", "d", "b"}, 3},
		{"crossed pointer from below", 2, 0, 3, []string{"b", "c", "d", "a"}, 1},
		{"crossed pointer from above", 1, 3, 0, []string{"d", "a", "b", "c"}, 2},
		{"move entirely after pointer", 0, 2, 3, []string{"a", "b", "d", "c"}, 0},
		{"move entirely before pointer", 3, 0, 1, []string{"b", "a", "c", "d"}, 3},
		{"no-op move", 2, 1, 1, []string{"a", "b", "c", "d"}, 2},
	}

	for _, tc := range testCases {
		q, cur, err := reorderSong(songs("a", "b", "c", "d"), tc.current, tc.oldIndex, tc.newIndex)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if !equalRefs(refs(q), tc.wantOrder) {
			t.Errorf("%s: order = %v, want %v", tc.name, refs(q), tc.wantOrder)
		}
		if cur != tc.wantCurrent {
			t.Errorf("%s: current = %d, want %d", tc.name, cur, tc.wantCurrent)
		}
	}
}

func TestReorderSong_PreservesContents(t *testing.T) {
	base := []string{"a", "b", "c", "d", "e"}
	for oldIndex := 0; oldIndex < len(base); oldIndex++ {
		for newIndex := 0; newIndex < len(base); newIndex++ {
			q, _, err := reorderSong(songs(base...), 2, oldIndex, newIndex)
			if err != nil {
				t.Fatalf("reorder(%d,%d): %v", oldIndex, newIndex, err)
			}
			got := refs(q)
			sorted := append([]string(nil), got...)
			sort.Strings(sorted)
			if !equalRefs(sorted, base) {
				t.Errorf("reorder(%d,%d) changed contents: %v", oldIndex, newIndex, got)
			}
		}
	}
}

func TestReorderSong_OutOfRange(t *testing.T) {
	_, _, err := reorderSong(songs("a", "b"), 0, 0, 5)
	if !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	_, _, err = reorderSong(songs("a", "b"), 0, -1, 1)
	if !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetCurrent(t *testing.T) {
	if _, err := setCurrent(songs("a", "b"), 2); !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if cur, err := setCurrent(songs("a", "b"), 1); err != nil || cur != 1 {
		t.Errorf("setCurrent(1) = %d, %v", cur, err)
	}
	if cur, err := setCurrent(nil, 0); err != nil || cur != 0 {
		t.Errorf("setCurrent on empty queue = %d, %v", cur, err)
	}
	if _, err := setCurrent(nil, 1); !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}
