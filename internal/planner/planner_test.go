package planner

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"tidyfiles/internal/classifier"
)

func testRules(destDir string) []classifier.Rule {
	return []classifier.Rule{
		{Destination: filepath.Join(destDir, "docs"), Extensions: []string{".txt", ".pdf"}},
		{Destination: filepath.Join(destDir, "images"), Extensions: []string{".jpg", ".png"}},
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func transferFor(plan *Plan, source string) (TransferEntry, bool) {
	for _, tr := range plan.Transfers {
		if tr.Source == source {
			return tr, true
		}
	}
	return TransferEntry{}, false
}

func containsPath(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}

func TestBuildPlansTransfersAndDeletions(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	unrec := filepath.Join(dest, "other")

	writeFile(t, filepath.Join(src, "a.txt"))
	writeFile(t, filepath.Join(src, "b.jpg"))
	writeFile(t, filepath.Join(src, "nested", "sub", "c.weird"))
	if err := os.MkdirAll(filepath.Join(src, "emptydir"), 0o755); err != nil {
		t.Fatal(err)
	}

	plan, err := Build(src, testRules(dest), unrec, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(plan.Transfers) != 3 {
		t.Fatalf("expected 3 transfers, got %d: %v", len(plan.Transfers), plan.Transfers)
	}

	tr, ok := transferFor(plan, filepath.Join(src, "a.txt"))
	if !ok {
		t.Fatal("a.txt not planned")
	}
	if want := filepath.Join(dest, "docs", "a.txt"); tr.Destination != want {
		t.Errorf("a.txt destination = %q, want %q", tr.Destination, want)
	}

	tr, ok = transferFor(plan, filepath.Join(src, "b.jpg"))
	if !ok {
		t.Fatal("b.jpg not planned")
	}
	if want := filepath.Join(dest, "images", "b.jpg"); tr.Destination != want {
		t.Errorf("b.jpg destination = %q, want %q", tr.Destination, want)
	}

	// No rule matches .weird, so it goes to the unrecognized folder.
	tr, ok = transferFor(plan, filepath.Join(src, "nested", "sub", "c.weird"))
	if !ok {
		t.Fatal("c.weird not planned")
	}
	if want := filepath.Join(unrec, "c.weird"); tr.Destination != want {
		t.Errorf("c.weird destination = %q, want %q", tr.Destination, want)
	}

	// Every directory below the root is a deletion candidate; the root is not.
	for _, dir := range []string{
		filepath.Join(src, "emptydir"),
		filepath.Join(src, "nested"),
		filepath.Join(src, "nested", "sub"),
	} {
		if !containsPath(plan.Deletions, dir) {
			t.Errorf("expected %q in deletions, got %v", dir, plan.Deletions)
		}
	}
	if containsPath(plan.Deletions, src) {
		t.Error("source root must never be planned for deletion")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(src, "a.txt"))
	writeFile(t, filepath.Join(src, "deep", "b.txt"))

	first, err := Build(src, testRules(dest), filepath.Join(dest, "other"), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(src, testRules(dest), filepath.Join(dest, "other"), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Transfers) != len(second.Transfers) {
		t.Fatalf("transfer counts differ: %d vs %d", len(first.Transfers), len(second.Transfers))
	}
	for i := range first.Transfers {
		if first.Transfers[i] != second.Transfers[i] {
			t.Errorf("transfer %d differs: %v vs %v", i, first.Transfers[i], second.Transfers[i])
		}
	}

	sort.Strings(first.Deletions)
	sort.Strings(second.Deletions)
	for i := range first.Deletions {
		if first.Deletions[i] != second.Deletions[i] {
			t.Errorf("deletion %d differs: %q vs %q", i, first.Deletions[i], second.Deletions[i])
		}
	}
}

func TestBuildSkipsExcludedSubtrees(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(src, "keep.txt"))
	writeFile(t, filepath.Join(src, "skipme", "inner.txt"))
	writeFile(t, filepath.Join(src, "skipfile.txt"))

	excludes := NewExcludeSet([]string{
		filepath.Join(src, "skipme"),
		filepath.Join(src, "skipfile.txt"),
	})

	plan, err := Build(src, testRules(dest), filepath.Join(dest, "other"), excludes, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %v", plan.Transfers)
	}
	if plan.Transfers[0].Source != filepath.Join(src, "keep.txt") {
		t.Errorf("unexpected transfer %v", plan.Transfers[0])
	}
	if containsPath(plan.Deletions, filepath.Join(src, "skipme")) {
		t.Error("excluded directory must not be planned for deletion")
	}
}

func TestBuildSkipsIrregularEntries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(src, "real.txt"))
	if err := os.Symlink(filepath.Join(src, "missing"), filepath.Join(src, "dangling")); err != nil {
		t.Fatal(err)
	}

	plan, err := Build(src, testRules(dest), filepath.Join(dest, "other"), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Transfers) != 1 {
		t.Fatalf("expected only the regular file planned, got %v", plan.Transfers)
	}
	if len(plan.Deletions) != 0 {
		t.Fatalf("expected no deletions, got %v", plan.Deletions)
	}
}

func TestBuildFailsOnMissingRoot(t *testing.T) {
	dest := t.TempDir()
	_, err := Build(filepath.Join(t.TempDir(), "nope"), testRules(dest), filepath.Join(dest, "other"), nil, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing source root")
	}
}

func TestExcludeSetContains(t *testing.T) {
	base := t.TempDir()
	set := NewExcludeSet([]string{filepath.Join(base, "a", "b")})

	cases := []struct {
		path string
		want bool
	}{
		{filepath.Join(base, "a", "b"), true},
		{filepath.Join(base, "a", "b", "deep", "file.txt"), true},
		{filepath.Join(base, "a"), false},
		{filepath.Join(base, "a", "bc"), false}, // sibling sharing a name prefix
		{filepath.Join(base, "other"), false},
	}
	for _, tc := range cases {
		if got := set.Contains(tc.path); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
