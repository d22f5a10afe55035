package room

import (
	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// Queue mutations are pure: they take (songs, currentIndex) and return the new
// pair or a named failure, never a partial application. currentIndex is 0 for
// an empty queue and in [0, len) otherwise.

// appendSongs appends tracks in order; the pointer is unchanged. Empty input is a no-op.
func appendSongs(queue []model.Song, tracks []model.Song) []model.Song {
	return append(queue, tracks...)
}

// deleteSong removes the entry at index and rebases the pointer:
// before the pointer — pointer shifts down with the queue; at the pointer —
// the pointer stays put and now refers to whatever shifted into the slot,
// clamped to the last entry (0 when the queue empties); after — unchanged.
// The second return reports whether the track under the pointer changed.
func deleteSong(queue []model.Song, current, index int) ([]model.Song, int, bool, error) {
	if index < 0 || index >= len(queue) {
		return nil, 0, false, errs.ErrIndexOutOfRange
	}
	next := make([]model.Song, 0, len(queue)-1)
	next = append(next, queue[:index]...)
	next = append(next, queue[index+1:]...)

	switch {
	case index < current:
		return next, current - 1, false, nil
	case index == current:
		nc := current
		if nc > len(next)-1 {
			nc = len(next) - 1
		}
		if nc < 0 {
			nc = 0
		}
		return next, nc, true, nil
	default:
		return next, current, false, nil
	}
}

// reorderSong moves the entry at oldIndex to newIndex and rebases the pointer.
// Exactly one of the cases applies: the moved entry was current (pointer
// follows it), the move crossed the pointer from below (pointer -1), the move
// crossed it from above (pointer +1), or nothing changes.
func reorderSong(queue []model.Song, current, oldIndex, newIndex int) ([]model.Song, int, error) {
	if oldIndex < 0 || oldIndex >= len(queue) || newIndex < 0 || newIndex >= len(queue) {
		return nil, 0, errs.ErrIndexOutOfRange
	}
	next := make([]model.Song, len(queue))
	copy(next, queue)
	moved := next[oldIndex]
	next = append(next[:oldIndex], next[oldIndex+1:]...)
	next = append(next[:newIndex], append([]model.Song{moved}, next[newIndex:]...)...)

	switch {
	case oldIndex == current:
		current = newIndex
	case oldIndex < current && current <= newIndex:
		current--
	case newIndex <= current && current < oldIndex:
		current++
	}
	return next, current, nil
}

// clearQueue empties the queue; the pointer resets to 0.
func clearQueue() ([]model.Song, int) {
	return nil, 0
}

// setCurrent points at another entry; invalid only when the queue is non-empty
// and the index falls outside it. On an empty queue only index 0 is accepted.
func setCurrent(queue []model.Song, index int) (int, error) {
	if len(queue) == 0 {
		if index != 0 {
			return 0, errs.ErrIndexOutOfRange
		}
		return 0, nil
	}
	if index < 0 || index >= len(queue) {
		return 0, errs.ErrIndexOutOfRange
	}
	return index, nil
}
