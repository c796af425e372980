// Package safety guards the organizer against touching system-critical paths.
// Every destination root and every planned deletion target is checked here
// before it is allowed into a plan.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// UnsafePathError indicates a path was rejected by the safety validator.
type UnsafePathError struct {
	Path   string
	Reason string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("unsafe path %s: %s", e.Path, e.Reason)
}

// IsSafePath reports whether a path may be created, moved into, or deleted.
// It returns false with a human-readable reason for operating-system
// directories, platform-specific special files, and paths whose parent
// directory is not writable. Any error while determining safety fails
// closed: the path is reported unsafe rather than safe.
func IsSafePath(path string) (bool, string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Sprintf("unable to verify path safety: %v", err)
	}

	if isSystemPath(abs) {
		return false, fmt.Sprintf("path is within a system directory: %s", abs)
	}

	if reason := specialFileReason(filepath.Base(abs)); reason != "" {
		return false, reason
	}

	// The path itself may not exist yet; what matters is that the nearest
	// existing ancestor can be written to.
	if info, err := os.Stat(abs); err == nil {
		if !isWritable(abs, info.IsDir()) {
			return false, fmt.Sprintf("path is not writable: %s", abs)
		}
	} else if !os.IsNotExist(err) {
		return false, fmt.Sprintf("unable to verify path safety: %v", err)
	}

	parent := nearestExistingAncestor(filepath.Dir(abs))
	if parent != "" && !isWritable(parent, true) {
		return false, fmt.Sprintf("parent directory is not writable: %s", parent)
	}

	return true, ""
}

// ValidatePath checks a path with IsSafePath. When strict is true an unsafe
// path is returned as an *UnsafePathError; otherwise unsafe paths are
// tolerated and nil is returned.
func ValidatePath(path string, strict bool) error {
	safe, reason := IsSafePath(path)
	if !safe && strict {
		return &UnsafePathError{Path: path, Reason: reason}
	}
	return nil
}

// nearestExistingAncestor walks up from dir until it finds a directory that
// exists. It returns "" when nothing up to the root exists, which only
// happens for degenerate inputs.
func nearestExistingAncestor(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// isSystemPath reports whether abs equals or is nested under one of the
// platform's protected directories.
func isSystemPath(abs string) bool {
	for _, sys := range systemPaths() {
		if abs == sys || strings.HasPrefix(abs, sys+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// systemPaths returns the protected directory roots for the current platform.
func systemPaths() []string {
	switch runtime.GOOS {
	case "windows":
		drive := os.Getenv("SystemDrive")
		if drive == "" {
			drive = "C:"
		}
		return []string{
			drive + `\Windows`,
			drive + `\Program Files`,
			drive + `\Program Files (x86)`,
			drive + `\ProgramData`,
		}
	case "darwin":
		return []string{
			"/System", "/Library", "/bin", "/sbin", "/usr", "/etc",
			"/dev", "/.Spotlight-V100", "/.fseventsd",
		}
	default:
		return []string{
			"/etc", "/bin", "/sbin", "/usr", "/boot", "/dev", "/lib",
			"/lib64", "/proc", "/root", "/run", "/sys", "/var",
		}
	}
}

// specialFileReason reports why a filename is a protected platform-specific
// special file, or "" when it is not.
func specialFileReason(name string) string {
	switch runtime.GOOS {
	case "darwin":
		if strings.HasPrefix(name, "._") || name == ".DS_Store" {
			return fmt.Sprintf("macOS system file: %s", name)
		}
	case "windows":
		if strings.HasPrefix(name, "~") {
			return fmt.Sprintf("Windows special file: %s", name)
		}
	}
	return ""
}
