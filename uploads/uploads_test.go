package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

func TestRecordAndLast(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry(dir)
	src := writeSource(t, "feed.csv", "group_id,product_title\n")

	info, err := registry.Record(src)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if info.OriginalName != "feed.csv" || info.Extension != "csv" {
		t.Errorf("info = %+v", info)
	}
	if !strings.HasPrefix(filepath.Base(info.Path), "feed_") {
		t.Errorf("copy name = %q, want feed_<ts>_ prefix", filepath.Base(info.Path))
	}
	if data, err := os.ReadFile(info.Path); err != nil || string(data) != "group_id,product_title\n" {
		t.Errorf("copied content mismatch: %q (err=%v)", data, err)
	}

	last, err := registry.Last()
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last == nil || last.Path != info.Path {
		t.Errorf("last = %+v, want the recorded upload", last)
	}
}

func TestRecordRejectsUnknownExtension(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	src := writeSource(t, "feed.txt", "nope")

	if _, err := registry.Record(src); err == nil {
		t.Fatal("expected an error for .txt")
	}
}

func TestLastEmptyRegistry(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	last, err := registry.Last()
	if err != nil || last != nil {
		t.Errorf("empty registry: last=%+v err=%v, want nil/nil", last, err)
	}
}

func TestLastIgnoresDeletedCopy(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	src := writeSource(t, "feed.csv", "data\n")

	info, err := registry.Record(src)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := os.Remove(info.Path); err != nil {
		t.Fatalf("removing copy: %v", err)
	}

	last, err := registry.Last()
	if err != nil || last != nil {
		t.Errorf("deleted copy: last=%+v err=%v, want nil/nil", last, err)
	}
}
