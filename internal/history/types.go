// Package history owns the on-disk journal of organize sessions. It records
// every destructive operation as it happens and can replay a session in
// reverse to restore the prior state.
package history

import (
	"fmt"
	"time"
)

// OperationType represents the kind of journaled filesystem action.
type OperationType string

const (
	OpMove            OperationType = "MOVE"
	OpDeleteDirectory OperationType = "DELETE_DIRECTORY"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailed  OperationStatus = "FAILED"
	StatusDryRun  OperationStatus = "DRY_RUN"
)

// SessionStatus represents the lifecycle state of a session. A crashed run
// leaves its session RUNNING forever; that is visible to the operator as an
// anomaly and is never auto-repaired.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "RUNNING"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionFailed    SessionStatus = "FAILED"
)

// Operation is one journaled, individually undoable filesystem action.
// Destination is empty for directory deletions.
type Operation struct {
	Timestamp   time.Time       `json:"timestamp"`
	Type        OperationType   `json:"type"`
	Source      string          `json:"source"`
	Destination string          `json:"destination,omitempty"`
	Status      OperationStatus `json:"status"`
}

// Session is one journaled run of the organize operation.
type Session struct {
	ID             int           `json:"id"`
	StartedAt      time.Time     `json:"startedAt"`
	SourceDir      string        `json:"sourceDir"`
	DestinationDir string        `json:"destinationDir"`
	Status         SessionStatus `json:"status"`
	Operations     []Operation   `json:"operations"`
}

// ErrorType represents the type of journal error.
type ErrorType string

const (
	JournalUnreadable ErrorType = "JOURNAL_UNREADABLE"
	JournalCorrupt    ErrorType = "JOURNAL_CORRUPT"
	JournalWriteError ErrorType = "JOURNAL_WRITE_ERROR"
	SessionNotFound   ErrorType = "SESSION_NOT_FOUND"
	OperationNotFound ErrorType = "OPERATION_NOT_FOUND"
	NoActiveSession   ErrorType = "NO_ACTIVE_SESSION"
	UndoFailed        ErrorType = "UNDO_FAILED"
)

// Error represents an error raised by the journal.
type Error struct {
	Type ErrorType
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}
