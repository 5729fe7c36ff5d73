package render

import (
	"os"
	"path/filepath"
	"sort"
)

// SweepArtifacts removes the oldest files in dir until at most keep
// remain. keep <= 0 disables the sweep. Subdirectories are skipped.
func SweepArtifacts(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	type artifact struct {
		name    string
		modTime int64
	}

	var files []artifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, artifact{name: e.Name(), modTime: info.ModTime().UnixNano()})
	}

	if len(files) <= keep {
		return nil
	}

	// Newest first; everything past the keep window goes.
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime > files[j].modTime
	})

	var firstErr error
	for _, f := range files[keep:] {
		if err := os.Remove(filepath.Join(dir, f.name)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
