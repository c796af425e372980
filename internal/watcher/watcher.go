// Package watcher re-triggers the organize pipeline when the source
// directory changes. Events are coalesced with a debounce delay so a burst
// of writes produces a single run, and runs execute one at a time: the core
// pipeline stays strictly sequential.
package watcher

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors a source directory and invokes a callback after activity
// settles.
type Watcher struct {
	source   string
	debounce time.Duration
	log      zerolog.Logger
	ignore   func(path string) bool // nil means nothing is ignored
	run      func()

	fsw  *fsnotify.Watcher
	done chan struct{}
	idle chan struct{}
}

// New creates a Watcher for source. The run callback fires after debounce
// has elapsed with no further relevant events; ignore filters out event
// paths that must not trigger a run (the tool's own state files, excluded
// paths).
func New(source string, debounce time.Duration, log zerolog.Logger, ignore func(string) bool, run func()) *Watcher {
	return &Watcher{
		source:   source,
		debounce: debounce,
		log:      log,
		ignore:   ignore,
		run:      run,
	}
}

// Start begins watching. It returns once the watcher is installed; events
// are processed until Stop is called.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.source); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.idle = make(chan struct{})

	go w.loop()
	return nil
}

// Stop shuts the watcher down and waits for any in-flight run to finish.
func (w *Watcher) Stop() {
	close(w.done)
	<-w.idle
	w.fsw.Close()
}

// loop owns the debounce timer and executes runs. Because runs happen on
// this goroutine, two organize passes can never overlap.
func (w *Watcher) loop() {
	defer close(w.idle)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignore != nil && w.ignore(event.Name) {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).
				Msg("source activity")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-fire:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-fire:
			timer = nil
			fire = nil
			w.run()
		}
	}
}
