package tui

import "sync"

// draftWriter orders draft writes issued by the builder.
// Sequence numbers are taken on the UI goroutine; writes run in commands.
// An autosave older than a write that already landed is dropped.
type draftWriter struct {
	mu      sync.Mutex
	seq     int
	written int
}

// next returns the sequence number for a new write
func (w *draftWriter) next() int {
	w.seq++
	return w.seq
}

// autosave runs save unless a newer write already landed
func (w *draftWriter) autosave(seq int, save func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq <= w.written {
		return nil
	}
	if err := save(); err != nil {
		return err
	}
	w.written = seq
	return nil
}

// run always executes op, serialized with autosaves
func (w *draftWriter) run(seq int, op func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := op()
	if seq > w.written {
		w.written = seq
	}
	return err
}
