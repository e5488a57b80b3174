// Package workspace owns the mutable browsing state: panes, tabs and
// their lifecycle. Every operation takes the pane or tab it acts on;
// there is no ambient "active pane", focus is the UI layer's concern.
package workspace

import (
	"context"
	"sync"

	"github.com/filewright/filewright/backend/internal/nav"
)

// PaneState is the pane's position in the navigation state machine.
type PaneState string

const (
	StateBrowsing        PaneState = "browsing"
	StateBrowsingArchive PaneState = "archive"
	StateEditing         PaneState = "editing"
)

// Pane is one browsing viewport: a current address, the listing shown for
// it, a selection over that listing, and (for primary panes) a history.
// Panes live for the lifetime of the owning tab.
type Pane struct {
	ID string

	mu          sync.Mutex
	state       PaneState
	address     nav.PathAddress
	listing     []nav.Entry
	selection   *nav.SelectionModel
	history     *nav.NavigationHistory
	hasHistory  bool
	editingPath string

	// archiveFile anchors the pane while browsing inside an archive; it
	// persists across internal navigation until the pane exits to the
	// filesystem.
	archiveFile string

	// manifests caches archive manifests for this pane's browsing
	// session only; dropped on refresh and on leaving the archive.
	manifests map[string][]string

	// generation guards against a slow listing completing after a newer
	// navigation already superseded it.
	generation uint64
}

func newPane(id string, withHistory bool) *Pane {
	return &Pane{
		ID:         id,
		state:      StateBrowsing,
		selection:  nav.NewSelection(),
		hasHistory: withHistory,
		manifests:  make(map[string][]string),
	}
}

// State returns the pane's current state machine position.
func (p *Pane) State() PaneState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Address returns the pane's current address, or nil before the first
// successful navigation.
func (p *Pane) Address() nav.PathAddress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address
}

// Listing returns the most recent successful listing.
func (p *Pane) Listing() []nav.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]nav.Entry, len(p.listing))
	copy(out, p.listing)
	return out
}

// ArchiveAnchor returns the archive file the pane is browsing inside, or
// "" when on the filesystem.
func (p *Pane) ArchiveAnchor() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.archiveFile
}

// CanBack reports whether history back would move.
func (p *Pane) CanBack() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history != nil && p.history.CanBack()
}

// CanForward reports whether history forward would move.
func (p *Pane) CanForward() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history != nil && p.history.CanForward()
}

// beginNavigation bumps the pane's generation and returns the ticket the
// eventual commit must present.
func (p *Pane) beginNavigation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	return p.generation
}

// commit installs a successful listing. It returns false when a newer
// navigation superseded this one, in which case the result is discarded.
// Fresh navigations record into history; replays never do.
func (p *Pane) commit(gen uint64, addr nav.PathAddress, listing []nav.Entry, replay bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return false
	}

	p.address = addr
	p.listing = listing
	p.selection.Clear()

	switch a := addr.(type) {
	case nav.ArchiveAddress:
		p.state = StateBrowsingArchive
		p.archiveFile = a.ArchiveFile
	default:
		p.state = StateBrowsing
		if p.archiveFile != "" {
			// Exiting the archive ends its browsing session; the
			// manifest is re-fetched on the next visit.
			p.archiveFile = ""
			p.manifests = make(map[string][]string)
		}
	}

	if !replay && p.hasHistory {
		if p.history == nil {
			p.history = nav.NewHistory(addr)
		} else {
			p.history.Record(addr)
		}
	}
	return true
}

// dropManifests clears the pane's manifest cache (refresh semantics).
func (p *Pane) dropManifests() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manifests = make(map[string][]string)
}

// cachingTool wraps the shared archive tool with this pane's manifest
// cache. Panes never share an in-progress manifest fetch; duplicate
// fetches across panes are acceptable since archives are read-only
// inputs.
func (p *Pane) cachingTool(inner nav.ArchiveTool) nav.ArchiveTool {
	return &paneManifestCache{pane: p, inner: inner}
}

type paneManifestCache struct {
	pane  *Pane
	inner nav.ArchiveTool
}

func (c *paneManifestCache) ListMembers(ctx context.Context, archiveFile string) ([]string, error) {
	c.pane.mu.Lock()
	cached, ok := c.pane.manifests[archiveFile]
	c.pane.mu.Unlock()
	if ok {
		return cached, nil
	}

	manifest, err := c.inner.ListMembers(ctx, archiveFile)
	if err != nil {
		return nil, err
	}

	c.pane.mu.Lock()
	c.pane.manifests[archiveFile] = manifest
	c.pane.mu.Unlock()
	return manifest, nil
}
