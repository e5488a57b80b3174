package nav

import (
	"strings"
	"time"
)

// ArchiveIndex derives one-level directory views from an archive's flat
// member-path manifest without materializing the whole tree. Many archive
// tools omit explicit directory entries (common with zip and tar), so
// immediate subdirectories are inferred from member path prefixes and
// deduplicated.
type ArchiveIndex struct {
	archiveFile string
	manifest    []string
}

// NewArchiveIndex wraps one archive's manifest. The manifest is the
// ordered member-path list exactly as the archive tool reported it.
func NewArchiveIndex(archiveFile string, manifest []string) *ArchiveIndex {
	return &ArchiveIndex{archiveFile: archiveFile, manifest: manifest}
}

// ListChildren returns the files and immediate subdirectories visible at
// internalPath, in manifest order with directories deduplicated. An empty
// manifest yields an empty listing, not an error.
//
// Sizes are 0 and timestamps are the time of listing: only membership is
// parsed from the manifest, not per-member metadata.
func (ix *ArchiveIndex) ListChildren(internalPath string) []Entry {
	prefix := ""
	if internalPath != "" {
		prefix = internalPath + "/"
	}

	now := time.Now()
	base := NewArchiveAddress(ix.archiveFile, internalPath)

	var entries []Entry
	seenDirs := make(map[string]struct{})
	seenFiles := make(map[string]struct{})

	for _, member := range ix.manifest {
		if member == "" || member == prefix || !strings.HasPrefix(member, prefix) {
			continue
		}
		rel := member[len(prefix):]

		head, _, nested := strings.Cut(rel, "/")
		if head == "" {
			continue
		}
		if nested {
			// Deeper member: its first segment names an immediate
			// subdirectory, recorded once no matter how many
			// descendants share it.
			if _, ok := seenDirs[head]; ok {
				continue
			}
			seenDirs[head] = struct{}{}
			entries = append(entries, Entry{
				Name:       head,
				Address:    base.Child(head),
				Kind:       KindDirectory,
				ModifiedAt: now,
				CreatedAt:  now,
			})
			continue
		}

		if _, ok := seenFiles[head]; ok {
			continue
		}
		seenFiles[head] = struct{}{}
		entries = append(entries, Entry{
			Name:       head,
			Address:    base.Child(head),
			Kind:       KindFile,
			ModifiedAt: now,
			CreatedAt:  now,
		})
	}

	return entries
}
