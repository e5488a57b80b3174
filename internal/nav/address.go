package nav

import (
	"path"
	"path/filepath"
	"strings"
)

// PathAddress identifies where a pane is looking: either a filesystem
// directory or a coordinate inside an archive. It is a closed union;
// the only implementations are FileSystemAddress and ArchiveAddress.
// Both are comparable value types, so two addresses describing the same
// location are equal under ==.
type PathAddress interface {
	// Key returns a stable string identity for the address, used as the
	// selection key and as the wire form of history entries.
	Key() string

	sealed()
}

// FileSystemAddress is a real directory (or file) on the local filesystem.
type FileSystemAddress struct {
	Path string
}

func (a FileSystemAddress) Key() string { return a.Path }
func (a FileSystemAddress) sealed()     {}

// Parent returns the address of the containing directory. The filesystem
// root is its own parent.
func (a FileSystemAddress) Parent() FileSystemAddress {
	return FileSystemAddress{Path: filepath.Dir(a.Path)}
}

// ArchiveAddress is a location inside an archive file: the archive on the
// filesystem plus a slash-separated internal path. An empty InternalPath
// denotes the archive's root listing. InternalPath never starts or ends
// with a separator.
type ArchiveAddress struct {
	ArchiveFile  string
	InternalPath string
}

// NewArchiveAddress builds an ArchiveAddress, normalizing the internal
// path so the separator invariant holds.
func NewArchiveAddress(archiveFile, internalPath string) ArchiveAddress {
	return ArchiveAddress{
		ArchiveFile:  archiveFile,
		InternalPath: strings.Trim(internalPath, "/"),
	}
}

func (a ArchiveAddress) Key() string {
	if a.InternalPath == "" {
		return a.ArchiveFile + "!/"
	}
	return a.ArchiveFile + "!/" + a.InternalPath
}

func (a ArchiveAddress) sealed() {}

// IsRoot reports whether the address is the archive's root listing.
func (a ArchiveAddress) IsRoot() bool { return a.InternalPath == "" }

// Parent returns the next shallower address. Going up from the archive
// root exits the archive into the directory containing the archive file.
func (a ArchiveAddress) Parent() PathAddress {
	if a.IsRoot() {
		return FileSystemAddress{Path: filepath.Dir(a.ArchiveFile)}
	}
	up := path.Dir(a.InternalPath)
	if up == "." || up == "/" {
		up = ""
	}
	return ArchiveAddress{ArchiveFile: a.ArchiveFile, InternalPath: up}
}

// Child returns the address of a named entry directly under this one.
func (a ArchiveAddress) Child(name string) ArchiveAddress {
	if a.IsRoot() {
		return ArchiveAddress{ArchiveFile: a.ArchiveFile, InternalPath: name}
	}
	return ArchiveAddress{ArchiveFile: a.ArchiveFile, InternalPath: a.InternalPath + "/" + name}
}
