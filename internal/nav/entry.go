package nav

import (
	"path/filepath"
	"strings"
	"time"
)

// EntryKind classifies a listed item.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
	KindSymlink
)

func (k EntryKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry is one listed item: a directory, file or symlink, with the
// attributes needed for sorting and display. Entries are value snapshots
// recreated on every listing.
//
// Archive-derived entries carry size 0 and use the time of listing for
// both timestamps; member metadata is not parsed from the archive. Mode,
// Owner and Group are filesystem-only and empty for archive entries.
type Entry struct {
	Name       string      `json:"name"`
	Address    PathAddress `json:"-"`
	Kind       EntryKind   `json:"-"`
	Size       int64       `json:"size"`
	ModifiedAt time.Time   `json:"modified_at"`
	CreatedAt  time.Time   `json:"created_at"`
	Mode       string      `json:"mode,omitempty"`
	Owner      string      `json:"owner,omitempty"`
	Group      string      `json:"group,omitempty"`
}

// IsDir reports whether the entry lists as a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDirectory }

// Extension returns the lowercased file extension without the dot, or ""
// for directories and extensionless names.
func (e Entry) Extension() string {
	if e.IsDir() {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name), "."))
}
