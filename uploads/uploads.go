// Package uploads tracks the most recently registered feed file. It only
// records metadata about files already on disk; transport of the file to
// the machine is somebody else's job.
package uploads

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xls":  {},
}

// Info describes one registered feed file.
type Info struct {
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	Extension    string    `json:"extension"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Registry copies registered files into its directory under unique names
// and remembers the last one.
type Registry struct {
	dir string
}

// NewRegistry builds a registry rooted at dir.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// Record copies src into the registry and marks it as the last upload.
func (r *Registry) Record(src string) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(src))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("unsupported feed file extension %q", ext)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	base := filepath.Base(src)
	target := filepath.Join(r.dir, fmt.Sprintf("feed_%d_%s", time.Now().Unix(), base))
	out, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create upload copy: %w", err)
	}
	size, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("copy feed file: %w", err)
	}

	info := &Info{
		Path:         target,
		OriginalName: base,
		Extension:    strings.TrimPrefix(ext, "."),
		Size:         size,
		UploadedAt:   time.Now(),
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode upload info: %w", err)
	}
	if err := os.WriteFile(r.lastPath(), data, 0o644); err != nil {
		return nil, fmt.Errorf("record upload info: %w", err)
	}
	return info, nil
}

// Last returns the most recently recorded upload, or nil when there is
// none or the recorded file no longer exists.
func (r *Registry) Last() (*Info, error) {
	data, err := os.ReadFile(r.lastPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload info: %w", err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode upload info: %w", err)
	}
	if _, err := os.Stat(info.Path); err != nil {
		return nil, nil
	}
	return &info, nil
}

func (r *Registry) lastPath() string {
	return filepath.Join(r.dir, "last.json")
}
