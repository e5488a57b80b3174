package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/filewright/filewright/backend/internal/archive"
	"github.com/filewright/filewright/backend/internal/monitoring"
	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSuperseded means a newer navigation on the same pane finished
	// first; the stale result was discarded, not rendered.
	ErrSuperseded = errors.New("navigation superseded")

	// ErrUnknownTab and ErrUnknownPane report stale IDs from the UI.
	ErrUnknownTab  = errors.New("unknown tab")
	ErrUnknownPane = errors.New("unknown pane")

	// ErrNotEditable rejects edit transitions from inside an archive.
	ErrNotEditable = errors.New("cannot edit a file inside an archive")

	// ErrNoHandler means Open found a plain file the browsing model does
	// not handle; the caller decides (editor, default application).
	ErrNoHandler = errors.New("no handler for entry")
)

// Config wires a Manager.
type Config struct {
	Archives nav.ArchiveTool
	Logger   *zap.Logger
	Metrics  *monitoring.Metrics
}

// Manager owns every tab and pane and is the single entry point for all
// location changes. It dispatches listing work through nav, applies the
// owning tab's sort policy, and keeps history bookkeeping correct by
// giving fresh navigation and history replay distinct code paths.
type Manager struct {
	mu    sync.RWMutex
	tabs  map[string]*Tab
	panes map[string]*paneRef

	archives nav.ArchiveTool
	log      *zap.Logger
	metrics  *monitoring.Metrics
}

type paneRef struct {
	pane *Pane
	tab  *Tab
}

// NewManager builds an empty workspace.
func NewManager(cfg Config) *Manager {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	archives := cfg.Archives
	if cfg.Metrics != nil && archives != nil {
		archives = &countingTool{inner: archives, metrics: cfg.Metrics}
	}
	return &Manager{
		tabs:     make(map[string]*Tab),
		panes:    make(map[string]*paneRef),
		archives: archives,
		log:      log,
		metrics:  cfg.Metrics,
	}
}

// countingTool counts real manifest fetches; pane caches sit above it,
// so cache hits are not counted.
type countingTool struct {
	inner   nav.ArchiveTool
	metrics *monitoring.Metrics
}

func (c *countingTool) ListMembers(ctx context.Context, archiveFile string) ([]string, error) {
	c.metrics.ManifestFetches.Inc()
	return c.inner.ListMembers(ctx, archiveFile)
}

// OpenTab creates a tab with one primary pane and navigates it to start.
func (m *Manager) OpenTab(ctx context.Context, start nav.PathAddress) (*Tab, error) {
	pane := newPane(uuid.NewString(), true)
	tab := newTab(uuid.NewString(), pane)

	if _, err := m.load(ctx, tab, pane, start, false); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tabs[tab.ID] = tab
	m.panes[pane.ID] = &paneRef{pane: pane, tab: tab}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.TabsActive.Inc()
	}
	m.log.Info("tab opened",
		zap.String("tab", tab.ID),
		zap.String("address", start.Key()))
	return tab, nil
}

// CloseTab destroys a tab and its panes.
func (m *Manager) CloseTab(tabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, ok := m.tabs[tabID]
	if !ok {
		return ErrUnknownTab
	}
	for _, p := range tab.panes() {
		delete(m.panes, p.ID)
	}
	delete(m.tabs, tabID)
	if m.metrics != nil {
		m.metrics.TabsActive.Dec()
	}
	return nil
}

// Split adds a secondary pane to the tab and navigates it to start. The
// secondary pane carries no history.
func (m *Manager) Split(ctx context.Context, tabID string, start nav.PathAddress) (*Pane, error) {
	tab, err := m.Tab(tabID)
	if err != nil {
		return nil, err
	}
	if tab.Secondary() != nil {
		return nil, fmt.Errorf("tab %s is already split", tabID)
	}

	pane := newPane(uuid.NewString(), false)
	if _, err := m.load(ctx, tab, pane, start, false); err != nil {
		return nil, err
	}

	tab.setSecondary(pane)
	m.mu.Lock()
	m.panes[pane.ID] = &paneRef{pane: pane, tab: tab}
	m.mu.Unlock()
	return pane, nil
}

// Unsplit removes the tab's secondary pane.
func (m *Manager) Unsplit(tabID string) error {
	tab, err := m.Tab(tabID)
	if err != nil {
		return err
	}
	sec := tab.Secondary()
	if sec == nil {
		return nil
	}
	tab.setSecondary(nil)

	m.mu.Lock()
	delete(m.panes, sec.ID)
	m.mu.Unlock()
	return nil
}

// Tab looks up a tab by ID.
func (m *Manager) Tab(tabID string) (*Tab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tab, ok := m.tabs[tabID]
	if !ok {
		return nil, ErrUnknownTab
	}
	return tab, nil
}

// Tabs returns a snapshot of all tabs.
func (m *Manager) Tabs() []*Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Tab, 0, len(m.tabs))
	for _, t := range m.tabs {
		out = append(out, t)
	}
	return out
}

// Pane looks up a pane and its owning tab.
func (m *Manager) Pane(paneID string) (*Pane, *Tab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.panes[paneID]
	if !ok {
		return nil, nil, ErrUnknownPane
	}
	return ref.pane, ref.tab, nil
}

// Navigate is a fresh, user-initiated move: it records into history.
func (m *Manager) Navigate(ctx context.Context, paneID string, addr nav.PathAddress) ([]nav.Entry, error) {
	pane, tab, err := m.Pane(paneID)
	if err != nil {
		return nil, err
	}
	return m.load(ctx, tab, pane, addr, false)
}

// Back replays the previous history entry without re-recording it. At the
// oldest entry it returns nav.ErrAtBoundary and changes nothing.
func (m *Manager) Back(ctx context.Context, paneID string) ([]nav.Entry, error) {
	return m.replay(ctx, paneID, func(h *nav.NavigationHistory) (nav.PathAddress, error) {
		return h.Back()
	}, func(h *nav.NavigationHistory) {
		_, _ = h.Forward()
	})
}

// Forward replays the next history entry without re-recording it.
func (m *Manager) Forward(ctx context.Context, paneID string) ([]nav.Entry, error) {
	return m.replay(ctx, paneID, func(h *nav.NavigationHistory) (nav.PathAddress, error) {
		return h.Forward()
	}, func(h *nav.NavigationHistory) {
		_, _ = h.Back()
	})
}

func (m *Manager) replay(
	ctx context.Context,
	paneID string,
	move func(*nav.NavigationHistory) (nav.PathAddress, error),
	undo func(*nav.NavigationHistory),
) ([]nav.Entry, error) {
	pane, tab, err := m.Pane(paneID)
	if err != nil {
		return nil, err
	}

	pane.mu.Lock()
	h := pane.history
	pane.mu.Unlock()
	if h == nil {
		return nil, nav.ErrAtBoundary
	}

	addr, err := move(h)
	if err != nil {
		return nil, err
	}

	listing, err := m.load(ctx, tab, pane, addr, true)
	if err != nil {
		// The target could not be listed; put the index back so the
		// pane and its history stay consistent.
		undo(h)
		return nil, err
	}
	return listing, nil
}

// Up navigates to the parent location. From an archive root it exits to
// the directory containing the archive file. It is a fresh navigation.
func (m *Manager) Up(ctx context.Context, paneID string) ([]nav.Entry, error) {
	pane, tab, err := m.Pane(paneID)
	if err != nil {
		return nil, err
	}

	var parent nav.PathAddress
	switch a := pane.Address().(type) {
	case nav.FileSystemAddress:
		parent = a.Parent()
	case nav.ArchiveAddress:
		parent = a.Parent()
	default:
		return nil, ErrUnknownPane
	}
	return m.load(ctx, tab, pane, parent, false)
}

// Refresh re-lists the current address. It is not recorded in history,
// clears the selection, and re-fetches archive manifests.
func (m *Manager) Refresh(ctx context.Context, paneID string) ([]nav.Entry, error) {
	pane, tab, err := m.Pane(paneID)
	if err != nil {
		return nil, err
	}
	addr := pane.Address()
	if addr == nil {
		return nil, ErrUnknownPane
	}
	pane.dropManifests()
	return m.load(ctx, tab, pane, addr, true)
}

// Open activates a filesystem path from a listing: a directory navigates
// into it, a recognized archive enters the archive at its root, anything
// else is the caller's to handle (editor, default application).
func (m *Manager) Open(ctx context.Context, paneID string, path string) ([]nav.Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nav.NewListError(nav.ErrNotFound, path, err)
	}
	if info.IsDir() {
		return m.Navigate(ctx, paneID, nav.FileSystemAddress{Path: path})
	}
	if archive.IsArchivePath(path) {
		return m.Navigate(ctx, paneID, nav.NewArchiveAddress(path, ""))
	}
	return nil, ErrNoHandler
}

// BeginEdit moves the pane into editing state for filePath. Editing is
// only reachable from the filesystem; archive members must be extracted
// first.
func (m *Manager) BeginEdit(paneID, filePath string) error {
	pane, _, err := m.Pane(paneID)
	if err != nil {
		return err
	}

	pane.mu.Lock()
	defer pane.mu.Unlock()
	if pane.state == StateBrowsingArchive {
		return ErrNotEditable
	}
	pane.state = StateEditing
	pane.editingPath = filePath
	return nil
}

// EndEdit returns the pane to its last filesystem address.
func (m *Manager) EndEdit(paneID string) error {
	pane, _, err := m.Pane(paneID)
	if err != nil {
		return err
	}

	pane.mu.Lock()
	defer pane.mu.Unlock()
	if pane.state != StateEditing {
		return nil
	}
	pane.state = StateBrowsing
	pane.editingPath = ""
	return nil
}

// SetSort changes the tab's sort policy and re-orders the current
// listings of its panes without re-listing.
func (m *Manager) SetSort(tabID string, policy nav.SortPolicy) error {
	tab, err := m.Tab(tabID)
	if err != nil {
		return err
	}
	tab.setSort(policy)

	for _, pane := range tab.panes() {
		pane.mu.Lock()
		pane.listing = policy.Apply(pane.listing)
		pane.mu.Unlock()
	}
	return nil
}

// Toggle flips one entry in the pane's selection.
func (m *Manager) Toggle(paneID, key string) error {
	return m.withSelection(paneID, func(s *nav.SelectionModel, _ []nav.Entry) {
		s.Toggle(key)
	})
}

// Replace selects exactly one entry.
func (m *Manager) Replace(paneID, key string) error {
	return m.withSelection(paneID, func(s *nav.SelectionModel, _ []nav.Entry) {
		s.Replace(key)
	})
}

// ExtendRange selects the visible range between two entries.
func (m *Manager) ExtendRange(paneID, from, to string) error {
	return m.withSelection(paneID, func(s *nav.SelectionModel, listing []nav.Entry) {
		visible := make([]string, len(listing))
		for i, e := range listing {
			visible[i] = e.Address.Key()
		}
		s.ExtendRange(from, to, visible)
	})
}

// ClearSelection empties the pane's selection.
func (m *Manager) ClearSelection(paneID string) error {
	return m.withSelection(paneID, func(s *nav.SelectionModel, _ []nav.Entry) {
		s.Clear()
	})
}

// Selection resolves the pane's selected keys back to entries of the
// current listing. Filesystem entries are re-stat-ed: one that no longer
// exists surfaces as an EntryVanished error.
func (m *Manager) Selection(paneID string) ([]nav.Entry, error) {
	pane, _, err := m.Pane(paneID)
	if err != nil {
		return nil, err
	}

	pane.mu.Lock()
	byKey := make(map[string]nav.Entry, len(pane.listing))
	for _, e := range pane.listing {
		byKey[e.Address.Key()] = e
	}
	keys := pane.selection.Keys()
	pane.mu.Unlock()

	out := make([]nav.Entry, 0, len(keys))
	for _, key := range keys {
		e, ok := byKey[key]
		if !ok {
			continue
		}
		if fsa, ok := e.Address.(nav.FileSystemAddress); ok {
			if _, err := os.Lstat(fsa.Path); err != nil {
				return nil, nav.NewListError(nav.ErrEntryVanished, fsa.Path, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *Manager) withSelection(paneID string, fn func(*nav.SelectionModel, []nav.Entry)) error {
	pane, _, err := m.Pane(paneID)
	if err != nil {
		return err
	}
	pane.mu.Lock()
	defer pane.mu.Unlock()
	fn(pane.selection, pane.listing)
	return nil
}

// load is the single listing path for fresh navigation, replay and
// refresh. On failure the pane is left exactly as it was: last address,
// last listing, selection and history all intact.
func (m *Manager) load(ctx context.Context, tab *Tab, pane *Pane, addr nav.PathAddress, replay bool) ([]nav.Entry, error) {
	gen := pane.beginNavigation()
	start := time.Now()

	lister := &nav.EntryLister{Archives: pane.cachingTool(m.archives)}
	entries, err := lister.List(ctx, addr)

	source := "filesystem"
	if _, ok := addr.(nav.ArchiveAddress); ok {
		source = "archive"
	}

	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordNavigation(source, nav.KindOf(err).String(), time.Since(start))
		}
		m.log.Warn("navigation failed",
			zap.String("pane", pane.ID),
			zap.String("address", addr.Key()),
			zap.Error(err))
		return nil, err
	}

	sorted := tab.Sort().Apply(entries)
	if !pane.commit(gen, addr, sorted, replay) {
		return nil, ErrSuperseded
	}

	if m.metrics != nil {
		m.metrics.RecordNavigation(source, "ok", time.Since(start))
	}
	m.log.Debug("navigated",
		zap.String("pane", pane.ID),
		zap.String("address", addr.Key()),
		zap.Int("entries", len(sorted)),
		zap.Bool("replay", replay))
	return sorted, nil
}
