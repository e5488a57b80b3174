package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool serves canned manifests and counts fetches.
type fakeTool struct {
	manifests map[string][]string
	calls     int
}

func (f *fakeTool) ListMembers(_ context.Context, archiveFile string) ([]string, error) {
	f.calls++
	m, ok := f.manifests[archiveFile]
	if !ok {
		return nil, fmt.Errorf("%w: %s", nav.ErrUnreadableArchive, archiveFile)
	}
	return m, nil
}

func testManager(t *testing.T, tool nav.ArchiveTool) *Manager {
	t.Helper()
	return NewManager(Config{Archives: tool})
}

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func entryNames(entries []nav.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// TestOpenTabAndNavigate opens a tab and walks into a subdirectory.
func TestOpenTabAndNavigate(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "docs")
	touch(t, filepath.Join(root, "a.txt"))

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: root})
	require.NoError(t, err)

	pane := tab.Primary()
	assert.Equal(t, StateBrowsing, pane.State())
	assert.Equal(t, []string{"docs", "a.txt"}, entryNames(pane.Listing()))

	listing, err := m.Navigate(context.Background(), pane.ID, nav.FileSystemAddress{Path: filepath.Join(root, "docs")})
	require.NoError(t, err)
	assert.Empty(t, listing)
	assert.Equal(t, nav.FileSystemAddress{Path: filepath.Join(root, "docs")}, pane.Address())
}

// TestOpenTabFailure leaves no tab behind when the start address cannot
// be listed.
func TestOpenTabFailure(t *testing.T) {
	m := testManager(t, nil)
	_, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: "/no/such/place"})
	require.Error(t, err)
	assert.Equal(t, nav.ErrNotFound, nav.KindOf(err))
	assert.Empty(t, m.Tabs())
}

// TestFailedNavigationRollsBack checks a failed navigation leaves the
// previously displayed listing and address unchanged.
func TestFailedNavigationRollsBack(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.txt"))

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	_, err = m.Navigate(context.Background(), pane.ID, nav.FileSystemAddress{Path: "/vanished"})
	require.Error(t, err)
	assert.Equal(t, nav.ErrNotFound, nav.KindOf(err))

	assert.Equal(t, nav.FileSystemAddress{Path: root}, pane.Address())
	assert.Equal(t, []string{"keep.txt"}, entryNames(pane.Listing()))
	assert.False(t, pane.CanForward())
}

// TestHistoryReplayDoesNotRecord runs the sequence navigate, back,
// navigate elsewhere; the forward branch is discarded and replays add no
// entries.
func TestHistoryReplayDoesNotRecord(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "x", "y", "z")

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: filepath.Join(root, "x")})
	require.NoError(t, err)
	pane := tab.Primary()
	ctx := context.Background()

	_, err = m.Navigate(ctx, pane.ID, nav.FileSystemAddress{Path: filepath.Join(root, "y")})
	require.NoError(t, err)

	_, err = m.Back(ctx, pane.ID)
	require.NoError(t, err)
	assert.Equal(t, nav.FileSystemAddress{Path: filepath.Join(root, "x")}, pane.Address())
	assert.True(t, pane.CanForward())

	// Navigating somewhere new from behind the end truncates /y.
	_, err = m.Navigate(ctx, pane.ID, nav.FileSystemAddress{Path: filepath.Join(root, "z")})
	require.NoError(t, err)
	assert.False(t, pane.CanForward())

	back, err := m.Back(ctx, pane.ID)
	require.NoError(t, err)
	assert.NotNil(t, back)
	assert.Equal(t, nav.FileSystemAddress{Path: filepath.Join(root, "x")}, pane.Address())

	fwd, err := m.Forward(ctx, pane.ID)
	require.NoError(t, err)
	assert.NotNil(t, fwd)
	assert.Equal(t, nav.FileSystemAddress{Path: filepath.Join(root, "z")}, pane.Address())

	_, err = m.Forward(ctx, pane.ID)
	assert.ErrorIs(t, err, nav.ErrAtBoundary)
}

// TestArchiveEnterNavigateExit drives the full archive round trip:
// enter at the root, descend, go up twice, and land back in the
// directory containing the archive.
func TestArchiveEnterNavigateExit(t *testing.T) {
	root := t.TempDir()
	archivePath := filepath.Join(root, "bundle.zip")
	touch(t, archivePath)

	tool := &fakeTool{manifests: map[string][]string{
		archivePath: {"docs/intro.md", "docs/deep/notes.md", "readme.txt"},
	}}
	m := testManager(t, tool)
	ctx := context.Background()

	tab, err := m.OpenTab(ctx, nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	// Activating the zip enters the archive at its root.
	listing, err := m.Open(ctx, pane.ID, archivePath)
	require.NoError(t, err)
	assert.Equal(t, StateBrowsingArchive, pane.State())
	assert.Equal(t, archivePath, pane.ArchiveAnchor())
	assert.Equal(t, []string{"docs", "readme.txt"}, entryNames(listing))

	// Descend; the anchor persists and the manifest is cached.
	_, err = m.Navigate(ctx, pane.ID, nav.NewArchiveAddress(archivePath, "docs"))
	require.NoError(t, err)
	assert.Equal(t, archivePath, pane.ArchiveAnchor())
	assert.Equal(t, 1, tool.calls)

	// Up to the archive root, then up again exits to the filesystem.
	_, err = m.Up(ctx, pane.ID)
	require.NoError(t, err)
	assert.Equal(t, nav.NewArchiveAddress(archivePath, ""), pane.Address())

	_, err = m.Up(ctx, pane.ID)
	require.NoError(t, err)
	assert.Equal(t, StateBrowsing, pane.State())
	assert.Equal(t, nav.FileSystemAddress{Path: root}, pane.Address())
	assert.Empty(t, pane.ArchiveAnchor())
}

// TestRefreshRefetchesManifest checks refresh drops the pane's manifest
// cache and clears the selection.
func TestRefreshRefetchesManifest(t *testing.T) {
	root := t.TempDir()
	archivePath := filepath.Join(root, "bundle.zip")
	touch(t, archivePath)

	tool := &fakeTool{manifests: map[string][]string{archivePath: {"a.txt"}}}
	m := testManager(t, tool)
	ctx := context.Background()

	tab, err := m.OpenTab(ctx, nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	_, err = m.Navigate(ctx, pane.ID, nav.NewArchiveAddress(archivePath, ""))
	require.NoError(t, err)
	require.NoError(t, m.Replace(pane.ID, nav.NewArchiveAddress(archivePath, "a.txt").Key()))

	_, err = m.Refresh(ctx, pane.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tool.calls)

	sel, err := m.Selection(pane.ID)
	require.NoError(t, err)
	assert.Empty(t, sel)

	// Refresh is not a history entry.
	_, err = m.Forward(ctx, pane.ID)
	assert.ErrorIs(t, err, nav.ErrAtBoundary)
}

// TestSelectionFlow drives replace + range through the manager.
func TestSelectionFlow(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "c.txt"),
		filepath.Join(root, "d.txt"),
	)

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	key := func(n string) string { return filepath.Join(root, n) }

	require.NoError(t, m.Replace(pane.ID, key("b.txt")))
	require.NoError(t, m.ExtendRange(pane.ID, key("b.txt"), key("d.txt")))

	sel, err := m.Selection(pane.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "c.txt", "d.txt"}, entryNames(sel))
}

// TestSelectionVanishedEntry surfaces EntryVanished when a selected file
// disappears underneath the pane.
func TestSelectionVanishedEntry(t *testing.T) {
	root := t.TempDir()
	doomed := filepath.Join(root, "doomed.txt")
	touch(t, doomed)

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	require.NoError(t, m.Replace(pane.ID, doomed))
	require.NoError(t, os.Remove(doomed))

	_, err = m.Selection(pane.ID)
	assert.Equal(t, nav.ErrEntryVanished, nav.KindOf(err))
}

// TestSetSortReorders re-sorts the stored listing without re-listing.
func TestSetSortReorders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "small.txt"), make([]byte, 1), 0o644))

	m := testManager(t, nil)
	tab, err := m.OpenTab(context.Background(), nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	require.NoError(t, m.SetSort(tab.ID, nav.SortPolicy{Key: nav.SortBySize, Direction: nav.Descending}))
	assert.Equal(t, []string{"big.txt", "small.txt"}, entryNames(pane.Listing()))
}

// TestSplitPaneHasNoHistory pins the split-view asymmetry.
func TestSplitPaneHasNoHistory(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "side")

	m := testManager(t, nil)
	ctx := context.Background()
	tab, err := m.OpenTab(ctx, nav.FileSystemAddress{Path: root})
	require.NoError(t, err)

	sec, err := m.Split(ctx, tab.ID, nav.FileSystemAddress{Path: filepath.Join(root, "side")})
	require.NoError(t, err)

	_, err = m.Back(ctx, sec.ID)
	assert.ErrorIs(t, err, nav.ErrAtBoundary)

	require.NoError(t, m.Unsplit(tab.ID))
	_, _, err = m.Pane(sec.ID)
	assert.ErrorIs(t, err, ErrUnknownPane)
}

// TestEditTransitions pins the editing state machine, including the
// archive restriction.
func TestEditTransitions(t *testing.T) {
	root := t.TempDir()
	archivePath := filepath.Join(root, "a.zip")
	notes := filepath.Join(root, "notes.txt")
	touch(t, archivePath, notes)

	tool := &fakeTool{manifests: map[string][]string{archivePath: {"inner.txt"}}}
	m := testManager(t, tool)
	ctx := context.Background()

	tab, err := m.OpenTab(ctx, nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	require.NoError(t, m.BeginEdit(pane.ID, notes))
	assert.Equal(t, StateEditing, pane.State())
	require.NoError(t, m.EndEdit(pane.ID))
	assert.Equal(t, StateBrowsing, pane.State())

	_, err = m.Navigate(ctx, pane.ID, nav.NewArchiveAddress(archivePath, ""))
	require.NoError(t, err)
	assert.ErrorIs(t, m.BeginEdit(pane.ID, "inner.txt"), ErrNotEditable)
}

// TestOpenDispatch pins Open's directory/archive/file decision.
func TestOpenDispatch(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "sub")
	plain := filepath.Join(root, "plain.bin")
	touch(t, plain)

	m := testManager(t, &fakeTool{})
	ctx := context.Background()
	tab, err := m.OpenTab(ctx, nav.FileSystemAddress{Path: root})
	require.NoError(t, err)
	pane := tab.Primary()

	_, err = m.Open(ctx, pane.ID, filepath.Join(root, "sub"))
	require.NoError(t, err)
	assert.Equal(t, StateBrowsing, pane.State())

	_, err = m.Open(ctx, pane.ID, plain)
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = m.Open(ctx, pane.ID, filepath.Join(root, "ghost"))
	assert.Equal(t, nav.ErrNotFound, nav.KindOf(err))
}
