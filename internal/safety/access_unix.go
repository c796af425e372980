//go:build !windows

package safety

import "golang.org/x/sys/unix"

// isWritable checks write permission using the real access(2) semantics so
// that ownership and group membership are honored, not just mode bits.
func isWritable(path string, _ bool) bool {
	return unix.Access(path, unix.W_OK) == nil
}
