package scheme

import (
	"os"
	"sync"
	"time"
)

// Watcher polls the catalog and override files. After each poll it calls
// onChange once with every path whose modification time moved, including
// files that appeared or vanished since the previous poll.
type Watcher struct {
	paths    []string
	interval time.Duration
	onChange func(changed []string)

	seen map[string]time.Time
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(paths []string, interval time.Duration, onChange func(changed []string)) *Watcher {
	return &Watcher{
		paths:    append([]string(nil), paths...),
		interval: interval,
		onChange: onChange,
		seen:     make(map[string]time.Time, len(paths)),
		stop:     make(chan struct{}),
	}
}

// Start records the current modification times and begins polling. Changes
// made after Start returns are reported.
func (w *Watcher) Start() {
	w.poll()
	w.done = make(chan struct{})
	go w.loop()
}

// Stop ends polling and waits for a running onChange to return.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stop) })
	if w.done != nil {
		<-w.done
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if changed := w.poll(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) poll() []string {
	var changed []string
	for _, p := range w.paths {
		var mt time.Time // zero while the file is missing
		if fi, err := os.Stat(p); err == nil {
			mt = fi.ModTime()
		}
		last, ok := w.seen[p]
		w.seen[p] = mt
		if ok && !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	return changed
}
