package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"tidyfiles/internal/history"
	"tidyfiles/internal/planner"
)

// recordedOp captures one journal call made by the executor.
type recordedOp struct {
	Type        history.OperationType
	Source      string
	Destination string
	Status      history.OperationStatus
}

// fakeRecorder collects journal records in memory.
type fakeRecorder struct {
	ops []recordedOp
}

func (f *fakeRecorder) RecordMove(source, destination string, status history.OperationStatus) error {
	f.ops = append(f.ops, recordedOp{history.OpMove, source, destination, status})
	return nil
}

func (f *fakeRecorder) RecordDeleteDirectory(path string, status history.OperationStatus) error {
	f.ops = append(f.ops, recordedOp{history.OpDeleteDirectory, path, "", status})
	return nil
}

func newExecutor(rec Recorder, dryRun bool) *Executor {
	return &Executor{Log: zerolog.Nop(), Journal: rec, DryRun: dryRun}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestTransferFilesMovesEverything(t *testing.T) {
	dir := t.TempDir()
	srcA := filepath.Join(dir, "in", "a.txt")
	srcB := filepath.Join(dir, "in", "b.txt")
	mustWrite(t, srcA, "aaa")
	mustWrite(t, srcB, "bbb")

	rec := &fakeRecorder{}
	ex := newExecutor(rec, false)
	succeeded, total := ex.TransferFiles([]planner.TransferEntry{
		{Source: srcA, Destination: filepath.Join(dir, "docs", "a.txt")},
		{Source: srcB, Destination: filepath.Join(dir, "docs", "b.txt")},
	})

	if succeeded != 2 || total != 2 {
		t.Fatalf("got (%d, %d), want (2, 2)", succeeded, total)
	}
	if got := mustRead(t, filepath.Join(dir, "docs", "a.txt")); got != "aaa" {
		t.Errorf("moved content = %q", got)
	}
	if _, err := os.Lstat(srcA); !os.IsNotExist(err) {
		t.Error("source a.txt still present after move")
	}
	if len(rec.ops) != 2 {
		t.Fatalf("expected 2 journal records, got %d", len(rec.ops))
	}
	for _, op := range rec.ops {
		if op.Status != history.StatusSuccess {
			t.Errorf("record %+v not SUCCESS", op)
		}
	}
}

func TestTransferFilesResolvesCollisions(t *testing.T) {
	dir := t.TempDir()
	occupied := filepath.Join(dir, "docs", "report.pdf")
	mustWrite(t, occupied, "already here")

	srcA := filepath.Join(dir, "in", "one", "report.pdf")
	srcB := filepath.Join(dir, "in", "two", "report.pdf")
	mustWrite(t, srcA, "first")
	mustWrite(t, srcB, "second")

	ex := newExecutor(nil, false)
	succeeded, total := ex.TransferFiles([]planner.TransferEntry{
		{Source: srcA, Destination: occupied},
		{Source: srcB, Destination: occupied},
	})

	if succeeded != 2 || total != 2 {
		t.Fatalf("got (%d, %d), want (2, 2)", succeeded, total)
	}

	// Suffixes always derive from the original stem: report_1, report_2,
	// never report_1_1.
	if got := mustRead(t, occupied); got != "already here" {
		t.Errorf("pre-existing file overwritten: %q", got)
	}
	if got := mustRead(t, filepath.Join(dir, "docs", "report_1.pdf")); got != "first" {
		t.Errorf("report_1.pdf = %q", got)
	}
	if got := mustRead(t, filepath.Join(dir, "docs", "report_2.pdf")); got != "second" {
		t.Errorf("report_2.pdf = %q", got)
	}
}

func TestTransferFilesContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "in", "ok.txt")
	mustWrite(t, good, "ok")

	rec := &fakeRecorder{}
	ex := newExecutor(rec, false)
	succeeded, total := ex.TransferFiles([]planner.TransferEntry{
		{Source: filepath.Join(dir, "in", "gone.txt"), Destination: filepath.Join(dir, "docs", "gone.txt")},
		{Source: good, Destination: filepath.Join(dir, "docs", "ok.txt")},
	})

	if succeeded != 1 || total != 2 {
		t.Fatalf("got (%d, %d), want (1, 2)", succeeded, total)
	}
	if len(rec.ops) != 2 {
		t.Fatalf("expected 2 journal records, got %d", len(rec.ops))
	}
	if rec.ops[0].Status != history.StatusFailed {
		t.Errorf("first record %+v, want FAILED", rec.ops[0])
	}
	if rec.ops[1].Status != history.StatusSuccess {
		t.Errorf("second record %+v, want SUCCESS", rec.ops[1])
	}
}

func TestTransferFilesDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "a.txt")
	mustWrite(t, src, "aaa")

	rec := &fakeRecorder{}
	ex := newExecutor(rec, true)
	succeeded, total := ex.TransferFiles([]planner.TransferEntry{
		{Source: src, Destination: filepath.Join(dir, "docs", "a.txt")},
	})

	if succeeded != 0 || total != 1 {
		t.Fatalf("got (%d, %d), want (0, 1)", succeeded, total)
	}
	if got := mustRead(t, src); got != "aaa" {
		t.Error("dry run modified the source file")
	}
	if _, err := os.Lstat(filepath.Join(dir, "docs")); !os.IsNotExist(err) {
		t.Error("dry run created the destination directory")
	}
	if len(rec.ops) != 1 || rec.ops[0].Status != history.StatusDryRun {
		t.Errorf("records = %+v, want one DRY_RUN", rec.ops)
	}
}

func TestDeleteDirsRemovesNestedOnce(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "nested")
	child := filepath.Join(parent, "sub")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	rec := &fakeRecorder{}
	ex := newExecutor(rec, false)
	// The parent appears first, taking the child with it; the child still
	// counts and is still journaled so records stay 1:1 with the plan.
	succeeded, total := ex.DeleteDirs([]string{parent, child})

	if succeeded != 2 || total != 2 {
		t.Fatalf("got (%d, %d), want (2, 2)", succeeded, total)
	}
	if _, err := os.Lstat(parent); !os.IsNotExist(err) {
		t.Error("parent directory still present")
	}
	if len(rec.ops) != 2 {
		t.Fatalf("expected 2 journal records, got %d", len(rec.ops))
	}
	for _, op := range rec.ops {
		if op.Type != history.OpDeleteDirectory || op.Status != history.StatusSuccess {
			t.Errorf("unexpected record %+v", op)
		}
	}
}

func TestDeleteDirsMissingDirectoryFails(t *testing.T) {
	rec := &fakeRecorder{}
	ex := newExecutor(rec, false)
	succeeded, total := ex.DeleteDirs([]string{filepath.Join(t.TempDir(), "never-existed")})

	if succeeded != 0 || total != 1 {
		t.Fatalf("got (%d, %d), want (0, 1)", succeeded, total)
	}
	if len(rec.ops) != 1 || rec.ops[0].Status != history.StatusFailed {
		t.Errorf("records = %+v, want one FAILED", rec.ops)
	}
}

func TestDeleteDirsDryRunLeavesDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "emptydir")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	ex := newExecutor(nil, true)
	succeeded, total := ex.DeleteDirs([]string{target})

	if succeeded != 0 || total != 1 {
		t.Fatalf("got (%d, %d), want (0, 1)", succeeded, total)
	}
	if _, err := os.Lstat(target); err != nil {
		t.Error("dry run removed the directory")
	}
}

func TestEffectiveDestination(t *testing.T) {
	dir := t.TempDir()
	planned := filepath.Join(dir, "report.pdf")

	if got := effectiveDestination(planned); got != planned {
		t.Errorf("free path rewritten to %q", got)
	}

	mustWrite(t, planned, "x")
	if got, want := effectiveDestination(planned), filepath.Join(dir, "report_1.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	mustWrite(t, filepath.Join(dir, "report_1.pdf"), "x")
	if got, want := effectiveDestination(planned), filepath.Join(dir, "report_2.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Extensionless names get the suffix at the end.
	bare := filepath.Join(dir, "README")
	mustWrite(t, bare, "x")
	if got, want := effectiveDestination(bare), filepath.Join(dir, "README_1"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
