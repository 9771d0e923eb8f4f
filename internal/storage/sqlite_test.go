package storage

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{SessionID: "a", Score: 100, Collected: 7, Duration: 12500 * time.Millisecond, MaxSpeed: 7.9},
		{SessionID: "a", Score: 45},
		{SessionID: "a", Score: 300},
		{SessionID: "b", Score: 500},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("a", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs for session a, got %d", len(top))
	}

	if top[0].Score != 300 || top[1].Score != 100 || top[2].Score != 45 {
		t.Errorf("Runs not sorted by score: %+v", top)
	}
	if top[1].Collected != 7 || top[1].Duration != 12500*time.Millisecond || top[1].MaxSpeed != 7.9 {
		t.Errorf("Run fields did not round-trip: %+v", top[1])
	}
	if top[1].CreatedAt.IsZero() {
		t.Error("CreatedAt should default to the save time")
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(Run{SessionID: "s", Score: (i + 1) * 15})
	}

	top, err := store.TopRuns("s", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(top))
	}
	if top[0].Score != 75 || top[1].Score != 60 || top[2].Score != 45 {
		t.Errorf("Runs not in expected order: %+v", top)
	}
}

func TestStoreTopRunsTiesKeepPlayOrder(t *testing.T) {
	store := openTestStore(t)

	first, _ := store.SaveRun(Run{SessionID: "s", Score: 30})
	second, _ := store.SaveRun(Run{SessionID: "s", Score: 30})

	top, _ := store.TopRuns("s", 0)
	if len(top) != 2 || top[0].ID != first || top[1].ID != second {
		t.Errorf("tied runs out of play order: %+v", top)
	}
}

func TestStoreBest(t *testing.T) {
	store := openTestStore(t)

	best, err := store.Best("s")
	if err != nil {
		t.Fatalf("Best() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for a session without runs, got %d", best)
	}

	store.SaveRun(Run{SessionID: "s", Score: 15})
	store.SaveRun(Run{SessionID: "s", Score: 90})
	store.SaveRun(Run{SessionID: "other", Score: 900})

	best, _ = store.Best("s")
	if best != 90 {
		t.Errorf("Expected best of 90, got %d", best)
	}
}

func TestStoreCountAndStats(t *testing.T) {
	store := openTestStore(t)

	at := time.UnixMilli(1_700_000_000_000)
	store.SaveRun(Run{SessionID: "s", Score: 30, Collected: 2, CreatedAt: at})
	store.SaveRun(Run{SessionID: "s", Score: 60, Collected: 4, CreatedAt: at.Add(time.Minute)})
	store.SaveRun(Run{SessionID: "t", Score: 15})

	n, err := store.Count()
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; expected 3", n, err)
	}

	stats, err := store.SessionStats("s")
	if err != nil {
		t.Fatalf("SessionStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Best != 60 || stats.AvgScore != 45 || stats.Collected != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if !stats.LastRun.Equal(at.Add(time.Minute)) {
		t.Errorf("LastRun = %v, expected %v", stats.LastRun, at.Add(time.Minute))
	}

	empty, _ := store.SessionStats("nobody")
	if empty.Runs != 0 || !empty.LastRun.IsZero() {
		t.Errorf("empty session stats = %+v", empty)
	}
}

func TestStoresAreIndependent(t *testing.T) {
	a := openTestStore(t)
	b := openTestStore(t)

	a.SaveRun(Run{SessionID: "s", Score: 15})

	if n, _ := b.Count(); n != 0 {
		t.Errorf("a fresh store should be empty, has %d runs", n)
	}
}

func TestStoreClosed(t *testing.T) {
	store, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()

	if _, err := store.SaveRun(Run{SessionID: "s"}); err != ErrClosed {
		t.Errorf("SaveRun on closed store = %v, expected ErrClosed", err)
	}
	if _, err := store.Best("s"); err != ErrClosed {
		t.Errorf("Best on closed store = %v, expected ErrClosed", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
