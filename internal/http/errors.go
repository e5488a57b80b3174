package http

import (
	"errors"
	"net/http"
	"os"

	"github.com/filewright/filewright/backend/internal/editor"
	"github.com/filewright/filewright/backend/internal/nav"
	"github.com/filewright/filewright/backend/internal/workspace"
	"github.com/gin-gonic/gin"
)

// writeError maps a backend error to an HTTP status and JSON body. The
// pane state is already preserved by the workspace layer; this only
// decides presentation.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, nav.ErrAtBoundary):
		// Back/forward at the end of history is a no-op, not a failure.
		c.JSON(http.StatusOK, gin.H{"moved": false})
		return
	case errors.Is(err, workspace.ErrUnknownTab),
		errors.Is(err, workspace.ErrUnknownPane):
		status = http.StatusNotFound
	case errors.Is(err, workspace.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, workspace.ErrNotEditable),
		errors.Is(err, workspace.ErrNoHandler):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, editor.ErrNotText),
		errors.Is(err, editor.ErrTooLarge):
		status = http.StatusUnprocessableEntity
	case os.IsNotExist(err):
		status = http.StatusNotFound
	default:
		status = listErrorStatus(err, status)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func listErrorStatus(err error, fallback int) int {
	var le *nav.ListError
	if !errors.As(err, &le) {
		return fallback
	}
	switch le.Kind {
	case nav.ErrNotFound:
		return http.StatusNotFound
	case nav.ErrPermissionDenied:
		return http.StatusForbidden
	case nav.ErrNotADirectory:
		return http.StatusBadRequest
	case nav.ErrUnsupportedArchiveFormat:
		return http.StatusUnsupportedMediaType
	case nav.ErrArchiveUnreadable:
		return http.StatusUnprocessableEntity
	case nav.ErrEntryVanished:
		return http.StatusGone
	default:
		return fallback
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
