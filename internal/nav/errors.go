package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind is the failure taxonomy for listing and navigation.
type ErrorKind int

const (
	ErrNotFound ErrorKind = iota + 1
	ErrPermissionDenied
	ErrNotADirectory
	ErrUnsupportedArchiveFormat
	ErrArchiveUnreadable
	ErrEntryVanished
	ErrListingFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrPermissionDenied:
		return "permission denied"
	case ErrNotADirectory:
		return "not a directory"
	case ErrUnsupportedArchiveFormat:
		return "unsupported archive format"
	case ErrArchiveUnreadable:
		return "archive unreadable"
	case ErrEntryVanished:
		return "entry vanished"
	case ErrListingFailed:
		return "listing failed"
	default:
		return "listing error"
	}
}

// ListError is a failed listing or navigation attempt. It is terminal for
// that attempt only: callers keep their previously valid state.
type ListError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ListError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

func (e *ListError) Unwrap() error { return e.Err }

// NewListError builds a ListError for the given address key.
func NewListError(kind ErrorKind, path string, err error) *ListError {
	return &ListError{Kind: kind, Path: path, Err: err}
}

// KindOf extracts the ErrorKind from err, or 0 if err is not a ListError.
func KindOf(err error) ErrorKind {
	var le *ListError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}

// ErrAtBoundary is returned by history moves that are already at the
// first or last entry. It is a no-op signal, not a user-visible failure.
var ErrAtBoundary = errors.New("history boundary")

// Sentinels an ArchiveTool implementation wraps so the lister can map
// tool failures onto the taxonomy without knowing the implementation.
var (
	ErrUnsupportedArchive = errors.New("unsupported archive format")
	ErrUnreadableArchive  = errors.New("unreadable archive")
)

// classifyFSError maps an OS-level listing failure onto the taxonomy.
// Only a confirmed missing path is NotFound; transient I/O failures
// stay generic so callers do not treat them as a vanished directory.
func classifyFSError(path string, err error) *ListError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewListError(ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return NewListError(ErrPermissionDenied, path, err)
	case errors.Is(err, syscall.ENOTDIR):
		return NewListError(ErrNotADirectory, path, err)
	default:
		return NewListError(ErrListingFailed, path, err)
	}
}
