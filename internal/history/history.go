// Package history tracks the order tracks were played in shuffle mode,
// so "previous" walks back through what actually played rather than
// picking another random track.
package history

// Tracker is an append-only, truncate-on-branch log of played track
// indices plus a cursor. Stepping back and then playing something new
// discards the abandoned forward entries, like browser history.
type Tracker struct {
	entries []int
	cursor  int
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{cursor: -1}
}

// RecordPlay appends index as the newest entry and moves the cursor to
// it. Recording the entry already at the cursor is a no-op, so repeated
// "started playing" signals for the same track don't duplicate it.
func (t *Tracker) RecordPlay(index int) {
	if t.cursor >= 0 && t.cursor < len(t.entries) && t.entries[t.cursor] == index {
		return
	}
	t.entries = append(t.entries[:t.cursor+1], index)
	t.cursor++
}

// StepBack moves the cursor one entry back and returns it. Returns
// false without moving when already at the oldest entry.
func (t *Tracker) StepBack() (int, bool) {
	if t.cursor <= 0 {
		return 0, false
	}
	t.cursor--
	return t.entries[t.cursor], true
}

// StepForward moves the cursor one entry forward and returns it.
// Returns false when there is no forward entry; the caller falls back
// to picking a fresh track.
func (t *Tracker) StepForward() (int, bool) {
	if t.cursor >= len(t.entries)-1 {
		return 0, false
	}
	t.cursor++
	return t.entries[t.cursor], true
}

// ResetTo clears the log to contain only index, or to empty if index is
// negative (current track unresolvable).
func (t *Tracker) ResetTo(index int) {
	if index < 0 {
		t.entries = t.entries[:0]
		t.cursor = -1
		return
	}
	t.entries = append(t.entries[:0], index)
	t.cursor = 0
}

// Current returns the entry at the cursor, or false if the log is empty.
func (t *Tracker) Current() (int, bool) {
	if t.cursor < 0 || t.cursor >= len(t.entries) {
		return 0, false
	}
	return t.entries[t.cursor], true
}

// Len returns the number of recorded entries.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the log, oldest first.
func (t *Tracker) Entries() []int {
	out := make([]int, len(t.entries))
	copy(out, t.entries)
	return out
}
