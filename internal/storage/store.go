// Package storage implements the flat on-disk store for uploaded images.
// All files live directly under a single base directory; the filesystem is
// the only durable state the service has.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a named file does not exist in the store.
	ErrNotFound = errors.New("file not found")
	// ErrFileTooLarge is returned by Save when the payload exceeds the limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsafeName is returned for names that are not a single path component.
	ErrUnsafeName = errors.New("unsafe file name")
)

// Store provides access to files in a single flat directory.
type Store struct {
	dir string
}

// Entry is the filesystem metadata projection returned by List.
type Entry struct {
	Name     string
	Size     int64
	IsDir    bool
	Modified time.Time
}

// New ensures the base directory exists and returns a Store rooted at it.
// Any error other than "already exists" is a startup failure for the caller.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory path.
func (s *Store) Dir() string {
	return s.dir
}

// SafeName reports whether name is a plain single path component: no
// separators, no parent references, nothing the filesystem would resolve
// outside the base directory.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}

// GeneratedName produces a collision-avoiding stored name of the form
// <base>-<unixSeconds>-<random><ext>. The extension is preserved verbatim
// from the original name, case included. There is deliberately no check
// that the name is free: uniqueness is probabilistic via the token.
func GeneratedName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	base = sanitizeBase(base)
	token := fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:8])
	return base + "-" + token + ext
}

// sanitizeBase keeps the original base recognizable while stripping anything
// that is not safe in a single path component.
func sanitizeBase(base string) string {
	if base == "" || base == "." || base == ".." {
		return "file"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// Save streams r into the store under name, enforcing limit bytes.
// The payload is written to a temporary file in the same directory and
// renamed into place, so a partial or oversized upload is never visible
// to List or to readers. Returns the number of bytes stored.
func (s *Store) Save(name string, r io.Reader, limit int64) (int64, error) {
	if !SafeName(name) {
		return 0, ErrUnsafeName
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Read one byte past the limit so we can tell "exactly limit" from
	// "over limit" without trusting a client-declared length.
	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, err
	}
	if n > limit {
		_ = os.Remove(tmpName)
		return 0, ErrFileTooLarge
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("store %q: %w", name, err)
	}
	return n, nil
}

// List enumerates the base directory non-recursively in filesystem order.
// In-flight temp files are excluded; everything else is reported as-is.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan storage dir: %w", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), ".upload-") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// Raced with a concurrent delete; skip the entry.
			continue
		}
		entries = append(entries, Entry{
			Name:     d.Name(),
			Size:     info.Size(),
			IsDir:    d.IsDir(),
			Modified: info.ModTime(),
		})
	}
	return entries, nil
}

// Open returns a reader and metadata for a stored file. Directories and
// missing files both report ErrNotFound.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	if !SafeName(name) {
		return nil, nil, ErrUnsafeName
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Delete removes a stored file by exact name.
func (s *Store) Delete(name string) error {
	if !SafeName(name) {
		return ErrUnsafeName
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
