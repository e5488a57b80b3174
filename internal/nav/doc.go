// Package nav implements the virtual browsing model shared by every pane:
// addresses, listings, archive indexing, history, selection and sorting.
//
// The central abstraction is PathAddress, a closed union of two location
// kinds: a real filesystem directory, or a coordinate inside an archive
// (archive file + internal path). EntryLister resolves either kind into a
// uniform []Entry, so navigation, selection and history never care whether
// a pane is looking at a directory on disk or at a synthetic listing
// derived from an archive's member manifest.
//
// All values produced here (PathAddress, Entry) are immutable snapshots;
// the mutable pieces (NavigationHistory, SelectionModel) belong to a pane
// and live in the workspace package.
package nav
