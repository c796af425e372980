package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// journalDocument is the persisted shape of the journal file.
type journalDocument struct {
	Sessions []Session `json:"sessions"`
}

// Journal is the durable record of all sessions. The whole file is read into
// memory on Open and rewritten in full on every mutation, so an abrupt
// termination loses at most the in-flight operation. Concurrent invocations
// racing on the same file are not guarded against: last writer wins.
type Journal struct {
	path     string
	sessions []Session
	active   int // index into sessions, -1 when no session is open
}

// Open loads the journal at path. A missing file yields an empty journal;
// an unparseable one is a hard error so history and undo commands never
// operate on guesswork.
func Open(path string) (*Journal, error) {
	j := &Journal{path: path, active: -1}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, &Error{Type: JournalUnreadable, Path: path, Err: err}
	}

	if len(data) == 0 {
		return j, nil
	}

	var doc journalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Type: JournalCorrupt, Path: path, Err: err}
	}

	j.sessions = doc.Sessions
	return j, nil
}

// Path returns the journal's storage location.
func (j *Journal) Path() string {
	return j.path
}

// Sessions returns all recorded sessions, oldest first.
func (j *Journal) Sessions() []Session {
	out := make([]Session, len(j.sessions))
	copy(out, j.sessions)
	return out
}

// Session returns the session with the given id.
func (j *Journal) Session(id int) (*Session, error) {
	idx := j.sessionIndex(id)
	if idx < 0 {
		return nil, &Error{Type: SessionNotFound, Path: fmt.Sprintf("session %d", id)}
	}
	s := j.sessions[idx]
	return &s, nil
}

// StartSession opens a new RUNNING session with the next sequential id and
// persists it immediately. It returns the new session's id.
func (j *Journal) StartSession(sourceDir, destDir string) (int, error) {
	id := 1
	for _, s := range j.sessions {
		if s.ID >= id {
			id = s.ID + 1
		}
	}

	j.sessions = append(j.sessions, Session{
		ID:             id,
		StartedAt:      time.Now(),
		SourceDir:      sourceDir,
		DestinationDir: destDir,
		Status:         SessionRunning,
		Operations:     []Operation{},
	})
	j.active = len(j.sessions) - 1

	if err := j.persist(); err != nil {
		j.sessions = j.sessions[:len(j.sessions)-1]
		j.active = -1
		return 0, err
	}
	return id, nil
}

// RecordMove appends a move operation to the active session and persists
// the journal.
func (j *Journal) RecordMove(source, destination string, status OperationStatus) error {
	return j.record(Operation{
		Timestamp:   time.Now(),
		Type:        OpMove,
		Source:      source,
		Destination: destination,
		Status:      status,
	})
}

// RecordDeleteDirectory appends a directory deletion to the active session
// and persists the journal.
func (j *Journal) RecordDeleteDirectory(path string, status OperationStatus) error {
	return j.record(Operation{
		Timestamp: time.Now(),
		Type:      OpDeleteDirectory,
		Source:    path,
		Status:    status,
	})
}

// EndSession transitions the active session to the given terminal status and
// persists the journal.
func (j *Journal) EndSession(status SessionStatus) error {
	if j.active < 0 {
		return &Error{Type: NoActiveSession, Path: j.path}
	}

	j.sessions[j.active].Status = status
	j.active = -1
	return j.persist()
}

func (j *Journal) record(op Operation) error {
	if j.active < 0 {
		return &Error{Type: NoActiveSession, Path: j.path}
	}

	j.sessions[j.active].Operations = append(j.sessions[j.active].Operations, op)
	if err := j.persist(); err != nil {
		ops := j.sessions[j.active].Operations
		j.sessions[j.active].Operations = ops[:len(ops)-1]
		return err
	}
	return nil
}

func (j *Journal) sessionIndex(id int) int {
	for i := range j.sessions {
		if j.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// persist rewrites the whole journal file. The write goes through a
// temporary file and a rename so a crash mid-write cannot corrupt the
// existing journal.
func (j *Journal) persist() error {
	doc := journalDocument{Sessions: j.sessions}
	if doc.Sessions == nil {
		doc.Sessions = []Session{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &Error{Type: JournalWriteError, Path: j.path, Err: err}
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return &Error{Type: JournalWriteError, Path: j.path, Err: err}
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &Error{Type: JournalWriteError, Path: j.path, Err: err}
	}
	if err := os.Rename(tmp, j.path); err != nil {
		os.Remove(tmp)
		return &Error{Type: JournalWriteError, Path: j.path, Err: err}
	}
	return nil
}
