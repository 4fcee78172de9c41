// Package tui provides a Bubble Tea terminal UI for playing a battle.
package tui

// History remembers submitted commands in a fixed-size ring so Up/Down can
// recall them. Consecutive repeats are stored once.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	count  int
	cursor int // -1 = not navigating, otherwise 0..count-1 from the oldest
}

// NewHistory creates a history holding at most size commands.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{ring: make([]string, size), cursor: -1}
}

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.count }

// Entries returns the stored commands, oldest first.
func (h *History) Entries() []string {
	out := make([]string, h.count)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}

// Push records a command, overwriting the oldest when full.
func (h *History) Push(cmd string) {
	if h.count > 0 && h.at(h.count-1) == cmd {
		return
	}
	if h.count < len(h.ring) {
		h.ring[(h.start+h.count)%len(h.ring)] = cmd
		h.count++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps back to an older command. It stays on the oldest one.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.count - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps forward. Past the newest command it returns ("", false) and
// stops navigating.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.count {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor stops navigating.
func (h *History) ResetCursor() {
	h.cursor = -1
}
