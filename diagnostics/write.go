package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data next to path and renames it into place so readers never observe
// a partially written file. The temporary file is removed on any failure.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file in %s, %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("unable to sync %s, %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close %s, %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("unable to set permissions on %s, %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to move %s into place, %w", path, err)
	}
	return nil
}
