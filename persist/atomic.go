package persist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic writes to a temp file beside path and renames it into place,
// so a crash mid-write never leaves a corrupt world.state behind: unlike
// an implementation that overwrites world.state in place, a robust one writes
// world.state.tmp and atomically renames.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) // no-op once renamed away
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("persist: rename into %s: %w", path, err)
	}
	return nil
}
