package nav

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the comparison attribute within each partition.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
	SortByCreated  SortKey = "created"
	SortByType     SortKey = "type"
)

// SortDirection inverts the final comparison, never the directories-first
// partition.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortPolicy orders a listing: directories always sort before files
// regardless of key, then entries compare by the key within each
// partition. The sort is stable, so entries equal under the active key
// retain their input order.
type SortPolicy struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortPolicy sorts by name, ascending.
func DefaultSortPolicy() SortPolicy {
	return SortPolicy{Key: SortByName, Direction: Ascending}
}

// Apply returns a sorted copy of entries; the input is left untouched.
func (p SortPolicy) Apply(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	// Collators carry internal buffers, so build one per call rather
	// than sharing across panes.
	coll := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)

	cmp := func(a, b Entry) int {
		switch p.Key {
		case SortBySize:
			switch {
			case a.Size < b.Size:
				return -1
			case a.Size > b.Size:
				return 1
			}
			return 0
		case SortByModified:
			return a.ModifiedAt.Compare(b.ModifiedAt)
		case SortByCreated:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortByType:
			// Directories carry no extension; they are already
			// partitioned away from files. Equal extensions keep
			// their input order.
			return coll.CompareString(a.Extension(), b.Extension())
		default:
			return coll.CompareString(a.Name, b.Name)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		c := cmp(a, b)
		if p.Direction == Descending {
			c = -c
		}
		return c < 0
	})
	return out
}
