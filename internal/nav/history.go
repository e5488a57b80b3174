package nav

// NavigationHistory is a per-pane back/forward stack over PathAddress
// values with browser-style truncation: recording a new address from a
// point behind the end discards the forward branch.
//
// Back and Forward only move the index; they never record. The caller
// replays the returned address through the listing path and must not call
// Record for that replay, otherwise entries duplicate or the forward
// branch is dropped at the wrong time.
type NavigationHistory struct {
	entries []PathAddress
	index   int
}

// NewHistory starts a history at the given address.
func NewHistory(start PathAddress) *NavigationHistory {
	return &NavigationHistory{entries: []PathAddress{start}, index: 0}
}

// Record appends addr as the new current entry, truncating any forward
// entries first. Recording the address already current is a no-op.
func (h *NavigationHistory) Record(addr PathAddress) {
	if h.entries[h.index] == addr {
		return
	}
	h.entries = append(h.entries[:h.index+1], addr)
	h.index++
}

// Back moves one entry back and returns the address now current, or
// ErrAtBoundary if already at the oldest entry.
func (h *NavigationHistory) Back() (PathAddress, error) {
	if h.index == 0 {
		return nil, ErrAtBoundary
	}
	h.index--
	return h.entries[h.index], nil
}

// Forward moves one entry forward and returns the address now current, or
// ErrAtBoundary if already at the newest entry.
func (h *NavigationHistory) Forward() (PathAddress, error) {
	if h.index == len(h.entries)-1 {
		return nil, ErrAtBoundary
	}
	h.index++
	return h.entries[h.index], nil
}

// Current returns the address at the current index.
func (h *NavigationHistory) Current() PathAddress { return h.entries[h.index] }

// CanBack reports whether Back would succeed.
func (h *NavigationHistory) CanBack() bool { return h.index > 0 }

// CanForward reports whether Forward would succeed.
func (h *NavigationHistory) CanForward() bool { return h.index < len(h.entries)-1 }

// Len returns the number of recorded entries.
func (h *NavigationHistory) Len() int { return len(h.entries) }
