package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// UndoResult reports how far a session-level undo got before stopping.
type UndoResult struct {
	SessionID int
	Undone    int   // Operations successfully reverted
	Total     int   // Operations in the session when the undo began
	Err       error // First failure, nil when the whole session was undone
}

// Complete reports whether every operation in the session was reverted.
func (r *UndoResult) Complete() bool {
	return r.Err == nil
}

// UndoOperation reverts a single operation identified by session id and
// positional index, then removes it from the session and persists the
// journal. Removal makes a repeated undo of the same index safe: it acts on
// whatever operation now occupies that position, never double-applying.
// Indices of later operations shift down after each successful undo.
//
// A move is reverted by renaming the destination back to the recorded
// source; the undo fails without side effects when the destination no
// longer exists. A directory deletion is reverted by recreating the
// directory, which is a no-op success when it already exists. On any
// filesystem error the journal is left unchanged.
func (j *Journal) UndoOperation(sessionID, operationIndex int) error {
	idx := j.sessionIndex(sessionID)
	if idx < 0 {
		return &Error{Type: SessionNotFound, Path: fmt.Sprintf("session %d", sessionID)}
	}

	ops := j.sessions[idx].Operations
	if operationIndex < 0 || operationIndex >= len(ops) {
		return &Error{
			Type: OperationNotFound,
			Path: fmt.Sprintf("session %d operation %d", sessionID, operationIndex),
		}
	}

	op := ops[operationIndex]
	if err := revert(op); err != nil {
		return err
	}

	j.sessions[idx].Operations = append(ops[:operationIndex], ops[operationIndex+1:]...)
	return j.persist()
}

// UndoSession reverts a whole session by replaying its operations from last
// to first, stopping at the first failure. Reverse order matters: directory
// deletions are journaled after the moves that emptied them, so walking
// backwards recreates directories before files are moved back into them.
func (j *Journal) UndoSession(sessionID int) (*UndoResult, error) {
	idx := j.sessionIndex(sessionID)
	if idx < 0 {
		return nil, &Error{Type: SessionNotFound, Path: fmt.Sprintf("session %d", sessionID)}
	}

	result := &UndoResult{
		SessionID: sessionID,
		Total:     len(j.sessions[idx].Operations),
	}

	for i := result.Total - 1; i >= 0; i-- {
		if err := j.UndoOperation(sessionID, i); err != nil {
			result.Err = err
			return result, nil
		}
		result.Undone++
	}

	return result, nil
}

// revert applies the inverse of one operation to the filesystem.
// Operations that never mutated the filesystem (failed or dry-run) have
// nothing to revert and succeed immediately.
func revert(op Operation) error {
	if op.Status != StatusSuccess {
		return nil
	}

	switch op.Type {
	case OpMove:
		if _, err := os.Stat(op.Destination); err != nil {
			return &Error{Type: UndoFailed, Path: op.Destination,
				Err: fmt.Errorf("destination no longer exists: %w", err)}
		}
		if err := os.MkdirAll(filepath.Dir(op.Source), 0o755); err != nil {
			return &Error{Type: UndoFailed, Path: op.Source, Err: err}
		}
		if err := os.Rename(op.Destination, op.Source); err != nil {
			return &Error{Type: UndoFailed, Path: op.Destination, Err: err}
		}
		return nil

	case OpDeleteDirectory:
		if err := os.MkdirAll(op.Source, 0o755); err != nil {
			return &Error{Type: UndoFailed, Path: op.Source, Err: err}
		}
		return nil

	default:
		return &Error{Type: UndoFailed, Path: op.Source,
			Err: fmt.Errorf("unknown operation type %q", op.Type)}
	}
}
