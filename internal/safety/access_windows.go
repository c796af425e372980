//go:build windows

package safety

import (
	"os"
	"path/filepath"
)

// isWritable probes write permission. Windows has no access(2); for
// directories the only reliable check is attempting to create a file.
func isWritable(path string, isDir bool) bool {
	if !isDir {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return false
		}
		f.Close()
		return true
	}

	probe := filepath.Join(path, ".tidyfiles_write_test")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}
