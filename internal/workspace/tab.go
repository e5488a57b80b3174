package workspace

import (
	"sync"

	"github.com/filewright/filewright/backend/internal/nav"
)

// ViewMode is how the UI renders a listing; the backend only stores it.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// Tab owns one or two panes (split view) and the sort policy they share.
// In split view only the primary pane keeps navigation history; the
// secondary pane browses without one.
type Tab struct {
	ID string

	mu        sync.Mutex
	primary   *Pane
	secondary *Pane
	sort      nav.SortPolicy
	view      ViewMode
}

func newTab(id string, primary *Pane) *Tab {
	return &Tab{
		ID:      id,
		primary: primary,
		sort:    nav.DefaultSortPolicy(),
		view:    ViewList,
	}
}

// Primary returns the tab's primary pane.
func (t *Tab) Primary() *Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.primary
}

// Secondary returns the split pane, or nil when not split.
func (t *Tab) Secondary() *Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secondary
}

// Sort returns the tab's current sort policy.
func (t *Tab) Sort() nav.SortPolicy {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sort
}

// View returns the tab's view mode.
func (t *Tab) View() ViewMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// SetView stores the view mode.
func (t *Tab) SetView(mode ViewMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.view = mode
}

func (t *Tab) setSort(p nav.SortPolicy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sort = p
}

func (t *Tab) setSecondary(p *Pane) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.secondary = p
}

// panes returns the tab's panes, primary first.
func (t *Tab) panes() []*Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.secondary == nil {
		return []*Pane{t.primary}
	}
	return []*Pane{t.primary, t.secondary}
}
