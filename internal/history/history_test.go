package history

import "testing"

func TestRecordPlayAdvancesCursor(t *testing.T) {
	tr := New()

	if _, ok := tr.Current(); ok {
		t.Error("Current() ok = true for empty tracker, want false")
	}

	tr.RecordPlay(3)
	tr.RecordPlay(5)
	tr.RecordPlay(7)

	if got := tr.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	cur, ok := tr.Current()
	if !ok || cur != 7 {
		t.Errorf("Current() = %d, %v, want 7, true", cur, ok)
	}
}

func TestRecordPlayDuplicateAtCursorIsNoop(t *testing.T) {
	tr := New()
	tr.RecordPlay(4)
	tr.RecordPlay(4)
	tr.RecordPlay(4)

	if got := tr.Len(); got != 1 {
		t.Errorf("Len() = %d after duplicate records, want 1", got)
	}
}

func TestRecordPlayAllowsNonAdjacentDuplicates(t *testing.T) {
	// Replaying a track that appears earlier in history must still be
	// recorded; only the entry at the cursor suppresses duplicates.
	tr := New()
	tr.RecordPlay(1)
	tr.RecordPlay(2)
	tr.RecordPlay(1)

	want := []int{1, 2, 1}
	got := tr.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBranchTruncation(t *testing.T) {
	tr := New()
	tr.RecordPlay(3)
	tr.RecordPlay(5)
	tr.RecordPlay(7)

	// Step back so the cursor points at 5, then branch.
	if got, ok := tr.StepBack(); !ok || got != 5 {
		t.Fatalf("StepBack() = %d, %v, want 5, true", got, ok)
	}
	tr.RecordPlay(9)

	want := []int{3, 5, 9}
	got := tr.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if cur, _ := tr.Current(); cur != 9 {
		t.Errorf("Current() = %d, want 9", cur)
	}
}

func TestStepBackBoundedAtOldest(t *testing.T) {
	tr := New()
	if _, ok := tr.StepBack(); ok {
		t.Error("StepBack() ok = true on empty tracker, want false")
	}

	tr.RecordPlay(2)
	if _, ok := tr.StepBack(); ok {
		t.Error("StepBack() ok = true at oldest entry, want false")
	}

	tr.RecordPlay(8)
	if got, ok := tr.StepBack(); !ok || got != 2 {
		t.Errorf("StepBack() = %d, %v, want 2, true", got, ok)
	}
	if _, ok := tr.StepBack(); ok {
		t.Error("StepBack() ok = true past oldest entry, want false")
	}
}

func TestStepForwardReturnsNoneAtNewest(t *testing.T) {
	tr := New()
	tr.RecordPlay(1)
	tr.RecordPlay(2)

	if _, ok := tr.StepForward(); ok {
		t.Error("StepForward() ok = true at newest entry, want false")
	}

	tr.StepBack()
	if got, ok := tr.StepForward(); !ok || got != 2 {
		t.Errorf("StepForward() = %d, %v, want 2, true", got, ok)
	}
}

func TestResetTo(t *testing.T) {
	tr := New()
	tr.RecordPlay(1)
	tr.RecordPlay(2)
	tr.RecordPlay(3)

	tr.ResetTo(5)
	if got := tr.Len(); got != 1 {
		t.Errorf("Len() = %d after ResetTo, want 1", got)
	}
	if cur, ok := tr.Current(); !ok || cur != 5 {
		t.Errorf("Current() = %d, %v, want 5, true", cur, ok)
	}

	tr.ResetTo(-1)
	if got := tr.Len(); got != 0 {
		t.Errorf("Len() = %d after ResetTo(-1), want 0", got)
	}
	if _, ok := tr.Current(); ok {
		t.Error("Current() ok = true after ResetTo(-1), want false")
	}
}

func TestCursorInvariant(t *testing.T) {
	tr := New()
	ops := []int{4, 4, 9, 1, 9, 9, 0}
	for _, i := range ops {
		tr.RecordPlay(i)
		if cur, ok := tr.Current(); !ok || cur != i {
			t.Fatalf("Current() = %d, %v after RecordPlay(%d)", cur, ok, i)
		}
	}

	// Cursor always points at the newest entry after a record, and no
	// two adjacent entries are ever equal.
	entries := tr.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i] == entries[i-1] {
			t.Errorf("adjacent duplicate at %d: %v", i, entries)
		}
	}
}
