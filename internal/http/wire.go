package http

import (
	"fmt"
	"time"

	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/filewright/filewright/backend/internal/workspace"
)

// Address is the wire form of a nav.PathAddress.
type Address struct {
	Type         string `json:"type"`
	Path         string `json:"path,omitempty"`
	ArchiveFile  string `json:"archive_file,omitempty"`
	InternalPath string `json:"internal_path,omitempty"`
}

const (
	addrFilesystem = "filesystem"
	addrArchive    = "archive"
)

// ToNav converts a wire address to its nav form.
func (a Address) ToNav() (nav.PathAddress, error) {
	switch a.Type {
	case addrFilesystem:
		if a.Path == "" {
			return nil, fmt.Errorf("filesystem address requires path")
		}
		return nav.FileSystemAddress{Path: a.Path}, nil
	case addrArchive:
		if a.ArchiveFile == "" {
			return nil, fmt.Errorf("archive address requires archive_file")
		}
		return nav.NewArchiveAddress(a.ArchiveFile, a.InternalPath), nil
	default:
		return nil, fmt.Errorf("unknown address type %q", a.Type)
	}
}

func fromNav(addr nav.PathAddress) Address {
	switch a := addr.(type) {
	case nav.FileSystemAddress:
		return Address{Type: addrFilesystem, Path: a.Path}
	case nav.ArchiveAddress:
		return Address{Type: addrArchive, ArchiveFile: a.ArchiveFile, InternalPath: a.InternalPath}
	default:
		return Address{}
	}
}

// Entry is the wire form of a listing entry.
type Entry struct {
	Name       string    `json:"name"`
	Address    Address   `json:"address"`
	Kind       string    `json:"kind"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	CreatedAt  time.Time `json:"created_at"`
	Mode       string    `json:"mode"`
	Owner      string    `json:"owner,omitempty"`
	Group      string    `json:"group,omitempty"`
}

func fromEntries(entries []nav.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			Name:       e.Name,
			Address:    fromNav(e.Address),
			Kind:       kindString(e.Kind),
			Size:       e.Size,
			ModifiedAt: e.ModifiedAt,
			CreatedAt:  e.CreatedAt,
			Mode:       e.Mode,
			Owner:      e.Owner,
			Group:      e.Group,
		}
	}
	return out
}

func kindString(k nav.EntryKind) string {
	switch k {
	case nav.KindDirectory:
		return "directory"
	case nav.KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// PaneView is the wire form of one pane's visible state.
type PaneView struct {
	ID         string  `json:"id"`
	State      string  `json:"state"`
	Address    Address `json:"address"`
	Entries    []Entry `json:"entries"`
	CanBack    bool    `json:"can_back"`
	CanForward bool    `json:"can_forward"`
}

func paneView(p *workspace.Pane) PaneView {
	view := PaneView{
		ID:         p.ID,
		State:      string(p.State()),
		Entries:    fromEntries(p.Listing()),
		CanBack:    p.CanBack(),
		CanForward: p.CanForward(),
	}
	if addr := p.Address(); addr != nil {
		view.Address = fromNav(addr)
	}
	return view
}

// TabView is the wire form of one tab.
type TabView struct {
	ID        string    `json:"id"`
	Primary   PaneView  `json:"primary"`
	Secondary *PaneView `json:"secondary,omitempty"`
	SortKey   string    `json:"sort_key"`
	SortDir   string    `json:"sort_dir"`
	View      string    `json:"view"`
}

func tabView(t *workspace.Tab) TabView {
	view := TabView{
		ID:      t.ID,
		Primary: paneView(t.Primary()),
		SortKey: string(t.Sort().Key),
		SortDir: string(t.Sort().Direction),
		View:    string(t.View()),
	}
	if sec := t.Secondary(); sec != nil {
		pv := paneView(sec)
		view.Secondary = &pv
	}
	return view
}
