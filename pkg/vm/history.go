package vm

import "github.com/mitchellh/copystructure"

// historyCap bounds the snapshot ring so long-running scripts don't
// grow memory unbounded; rewind() beyond this depth is simply
// unavailable.
const historyCap = 1000

// snapshot is a single history entry: a deep copy of everything tick()
// mutates. worldSnapshot is itself an opaque value obtained from (and
// later replayed through) WorldView.
type snapshot struct {
	ip               int
	stack            []interface{}
	instructionCount int
	worldSnapshot    interface{}
}

// history is a fixed-capacity ring buffer of snapshots, oldest first.
type history struct {
	entries []snapshot
}

func (h *history) push(s snapshot) {
	cp, err := copystructure.Copy(s.stack)
	if err == nil {
		s.stack, _ = cp.([]interface{})
	}
	if s.worldSnapshot != nil {
		if wcp, err := copystructure.Copy(s.worldSnapshot); err == nil {
			s.worldSnapshot = wcp
		}
	}
	h.entries = append(h.entries, s)
	if len(h.entries) > historyCap {
		h.entries = h.entries[len(h.entries)-historyCap:]
	}
}

// rewind returns the state captured just before the nth-from-last tick
// (rewind(1) is the snapshot taken right before the most recently
// executed tick, i.e. the current tail) and discards it and everything
// after it, or ok=false if history is too short.
func (h *history) rewind(n int) (snapshot, bool) {
	idx := len(h.entries) - n
	if idx < 0 || idx >= len(h.entries) {
		return snapshot{}, false
	}
	s := h.entries[idx]
	h.entries = h.entries[:idx]
	return s, true
}

func (h *history) reset() {
	h.entries = nil
}

func (h *history) len() int { return len(h.entries) }
