// Package progress defines the narrow reporting capability the executors
// depend on: create a tracked unit of work, then advance it. The core never
// sees a concrete rendering library.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter creates tracked units of work.
type Reporter interface {
	Begin(label string, total int) Unit
}

// Unit is one tracked batch of work.
type Unit interface {
	Advance(n int)
}

// NewReporter returns a bar-rendering reporter when out is an interactive
// terminal and a discarding one otherwise, so batch runs and tests produce
// no control characters.
func NewReporter(out io.Writer) Reporter {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &barReporter{out: out}
	}
	return Discard
}

// Discard is a Reporter that tracks nothing.
var Discard Reporter = discardReporter{}

type discardReporter struct{}

func (discardReporter) Begin(string, int) Unit { return discardUnit{} }

type discardUnit struct{}

func (discardUnit) Advance(int) {}

type barReporter struct {
	out io.Writer
}

func (r *barReporter) Begin(label string, total int) Unit {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return &barUnit{bar: bar}
}

type barUnit struct {
	bar *progressbar.ProgressBar
}

func (u *barUnit) Advance(n int) {
	_ = u.bar.Add(n)
}
