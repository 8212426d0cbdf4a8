package state

// DefaultHistorySize is the input history capacity used when the
// configuration does not specify one.
const DefaultHistorySize = 50

// History is a bounded input history buffer with a navigation cursor.
// Recording an entry resets the cursor past the newest entry; Prev and
// Next walk the buffer the way shell history does.
type History struct {
	entries []string
	cursor  int
	limit   int
}

// NewHistory creates a history buffer holding at most limit entries.
//
// Precondition: limit >= 0; 0 uses DefaultHistorySize.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit}
}

// Record appends an input line and resets the cursor. Blank lines are
// not recorded.
func (h *History) Record(line string) {
	if line == "" {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries)
}

// Prev moves the cursor back one entry and returns it. Returns ("", false)
// when the buffer is empty; at the oldest entry it stays put.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next moves the cursor forward one entry and returns it. Past the newest
// entry it returns ("", false), matching the blank line shells show when
// scrolling beyond history.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// Entries returns the recorded lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}
