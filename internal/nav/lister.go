package nav

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// ArchiveTool is the external collaborator that reads archive manifests.
// Implementations report an unrecognized extension by wrapping
// ErrUnsupportedArchive and any read or parse failure by wrapping
// ErrUnreadableArchive.
type ArchiveTool interface {
	// ListMembers returns the ordered member-path manifest of the
	// archive file, exactly as the underlying format reports it.
	ListMembers(ctx context.Context, archiveFile string) ([]string, error)
}

// EntryLister resolves a PathAddress into the ordered set of entries to
// display. Filesystem addresses enumerate direct children of the
// directory; archive addresses fetch the manifest through the ArchiveTool
// and derive the one-level view with ArchiveIndex.
//
// The lister performs no caching; callers that want to reuse an archive
// manifest during a browsing session wrap Archives with a caching tool
// keyed on the archive file.
type EntryLister struct {
	Archives ArchiveTool
}

// List resolves addr. Failures are terminal for this attempt only and are
// reported as *ListError; individual children that cannot be stat-ed are
// skipped, since a listing is best effort over a snapshot.
func (l *EntryLister) List(ctx context.Context, addr PathAddress) ([]Entry, error) {
	switch a := addr.(type) {
	case FileSystemAddress:
		return l.listDirectory(a)
	case ArchiveAddress:
		return l.listArchive(ctx, a)
	default:
		return nil, NewListError(ErrNotFound, addr.Key(), errors.New("unknown address kind"))
	}
}

func (l *EntryLister) listDirectory(addr FileSystemAddress) ([]Entry, error) {
	info, err := os.Stat(addr.Path)
	if err != nil {
		return nil, classifyFSError(addr.Path, err)
	}
	if !info.IsDir() {
		return nil, NewListError(ErrNotADirectory, addr.Path, nil)
	}

	dirents, err := os.ReadDir(addr.Path)
	if err != nil {
		return nil, classifyFSError(addr.Path, err)
	}

	names := newNameCache()
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		fi, err := de.Info()
		if err != nil {
			// One bad entry must not fail the whole listing.
			continue
		}

		kind := KindFile
		switch {
		case de.Type()&fs.ModeSymlink != 0:
			kind = KindSymlink
		case de.IsDir():
			kind = KindDirectory
		}

		e := Entry{
			Name:       de.Name(),
			Address:    FileSystemAddress{Path: filepath.Join(addr.Path, de.Name())},
			Kind:       kind,
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
			CreatedAt:  fi.ModTime(),
			Mode:       fi.Mode().String(),
		}
		if st, ok := fi.Sys().(*syscall.Stat_t); ok {
			e.CreatedAt = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
			e.Owner = names.user(st.Uid)
			e.Group = names.group(st.Gid)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (l *EntryLister) listArchive(ctx context.Context, addr ArchiveAddress) ([]Entry, error) {
	if l.Archives == nil {
		return nil, NewListError(ErrArchiveUnreadable, addr.Key(), errors.New("no archive tool configured"))
	}

	manifest, err := l.Archives.ListMembers(ctx, addr.ArchiveFile)
	if err != nil {
		if errors.Is(err, ErrUnsupportedArchive) {
			return nil, NewListError(ErrUnsupportedArchiveFormat, addr.ArchiveFile, err)
		}
		return nil, NewListError(ErrArchiveUnreadable, addr.ArchiveFile, err)
	}

	return NewArchiveIndex(addr.ArchiveFile, manifest).ListChildren(addr.InternalPath), nil
}

// nameCache memoizes uid/gid lookups within one listing; a directory of a
// thousand files usually has one owner.
type nameCache struct {
	users  map[uint32]string
	groups map[uint32]string
}

func newNameCache() *nameCache {
	return &nameCache{users: make(map[uint32]string), groups: make(map[uint32]string)}
}

func (c *nameCache) user(uid uint32) string {
	if name, ok := c.users[uid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	c.users[uid] = name
	return name
}

func (c *nameCache) group(gid uint32) string {
	if name, ok := c.groups[gid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(gid), 10)
	if g, err := user.LookupGroupId(name); err == nil {
		name = g.Name
	}
	c.groups[gid] = name
	return name
}
