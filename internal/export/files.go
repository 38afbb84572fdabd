package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore writes generated CSVs under a single export directory and
// serves them back by bare filename for download.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes content under a timestamped name like
// "po_review_123456_20260826_153000.csv" and returns that filename.
func (fs *FileStore) Save(kind, poNumber string, write func(f *os.File) error) (string, error) {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.csv", kind, sanitize(poNumber), time.Now().UTC().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(fs.dir, name))
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return "", fmt.Errorf("write export %s: %w", name, err)
	}
	return name, nil
}

// Open returns a previously generated export by bare filename. Names with
// path separators or traversal segments are refused.
func (fs *FileStore) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid export filename %q", name)
	}
	f, err := os.Open(filepath.Join(fs.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", name, err)
	}
	return f, nil
}

// sanitize keeps filenames shell- and URL-safe.
func sanitize(s string) string {
	if s == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
