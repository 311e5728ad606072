package report

import (
	"os"
	"testing"
	"time"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save("dryrun", payload{Name: "feed.csv", Count: 7}, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got payload
	found, err := store.Load("dryrun", &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("snapshot not found after save")
	}
	if got.Name != "feed.csv" || got.Count != 7 {
		t.Errorf("payload = %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	var got payload
	found, err := store.Load("fullimport", &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("missing snapshot reported as found")
	}
}

func TestExpiredSnapshotRemoved(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.Save("preview", payload{Count: 1}, time.Nanosecond); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got payload
	found, err := store.Load("preview", &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("expired snapshot reported as found")
	}
	if _, err := os.Stat(store.path("preview")); !os.IsNotExist(err) {
		t.Error("expired snapshot file should be removed")
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save("dryrun", payload{Count: 1}, 0); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save("dryrun", payload{Count: 2}, 0); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var got payload
	if found, err := store.Load("dryrun", &got); err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got.Count != 2 {
		t.Errorf("count = %d, want the replacement snapshot", got.Count)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save("dryrun", payload{Count: 3}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	var got payload
	if found, err := store.Load("dryrun", &got); err != nil || !found {
		t.Errorf("zero-ttl snapshot should persist: found=%v err=%v", found, err)
	}
}
