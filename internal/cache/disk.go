package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Disk stores tables as JSON files under Dir/<league>/<season>/<category>.json.
type Disk struct {
	Dir string
}

// NewDisk creates the cache directory if absent.
func NewDisk(dir string) (*Disk, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk cache: directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk cache: create %s: %w", dir, err)
	}
	return &Disk{Dir: dir}, nil
}

func (d *Disk) path(key Key) string {
	return filepath.Join(d.Dir, slug(key.League), key.Season, string(key.Category)+".json")
}

// Get reads an entry; the file modification time is its StoredAt.
func (d *Disk) Get(_ context.Context, key Key) (Entry, error) {
	p := d.path(key)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("disk cache: read %s: %w", key, err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return Entry{}, fmt.Errorf("disk cache: stat %s: %w", key, err)
	}
	return Entry{Data: data, StoredAt: info.ModTime()}, nil
}

// Put writes to a temp file and renames it into place, so readers see
// either the old or the new file, never a partial one.
func (d *Disk) Put(_ context.Context, key Key, data []byte) error {
	p := d.path(key)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("disk cache: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("disk cache: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("disk cache: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("disk cache: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("disk cache: rename %s: %w", key, err)
	}
	return nil
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (d *Disk) Delete(_ context.Context, key Key) error {
	err := os.Remove(d.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk cache: delete %s: %w", key, err)
	}
	return nil
}

// Prune removes cached tables last written before cutoff and returns how
// many were removed.
func (d *Disk) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	err := filepath.WalkDir(d.Dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("disk cache: prune: %w", err)
	}
	return removed, nil
}

// Writable checks that the cache directory still accepts new files.
func (d *Disk) Writable() error {
	f, err := os.CreateTemp(d.Dir, ".health.*")
	if err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
