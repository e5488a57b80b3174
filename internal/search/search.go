// Package search implements recursive file search under a root: name
// matching, gitignore-style globs, content search and recency queries.
// Results never leave the root the caller asked about.
package search

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// DefaultLimit caps result sets when the caller does not.
const DefaultLimit = 500

// errLimitReached stops the walk once enough hits are collected.
var errLimitReached = fmt.Errorf("result limit reached")

// Result is one search hit.
type Result struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	IsDir      bool      `json:"is_dir"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Options narrows a name search. Zero values mean "no constraint".
type Options struct {
	Query      string
	Extensions []string
	MinSize    int64
	MaxSize    int64
	After      time.Time
	Before     time.Time
	Limit      int
}

// Service runs searches. Safe for concurrent use.
type Service struct {
	log *zap.Logger
}

// NewService builds a search Service. Logger may be nil.
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// Find walks root and returns entries whose name contains the query,
// case-insensitively, honoring the option filters. Hidden directories
// are descended into; unreadable subtrees are skipped.
func (s *Service) Find(ctx context.Context, root string, opts Options) ([]Result, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("search query required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := strings.ToLower(opts.Query)
	exts := extensionSet(opts.Extensions)

	var mu sync.Mutex
	var results []Result

	start := time.Now()
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil || p == root {
			return nil
		}

		name := d.Name()
		if !strings.Contains(strings.ToLower(name), query) {
			return nil
		}
		if len(exts) > 0 && (d.IsDir() || !exts[strings.ToLower(filepath.Ext(name))]) {
			return nil
		}

		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		if !matchInfo(info, opts) {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		if len(results) >= limit {
			return errLimitReached
		}
		results = append(results, toResult(p, info))
		return nil
	})
	if err != nil && err != errLimitReached {
		return nil, fmt.Errorf("search %s: %w", root, err)
	}

	sortResults(results)
	s.log.Debug("name search done",
		zap.String("root", root),
		zap.String("query", opts.Query),
		zap.Int("hits", len(results)),
		zap.Duration("took", time.Since(start)))
	return results, nil
}

// Glob matches a gitignore-style pattern (with ** support) under root
// and returns the hits as results.
func (s *Service) Glob(ctx context.Context, root, pattern string) ([]Result, error) {
	if pattern == "" {
		return nil, fmt.Errorf("glob pattern required")
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		info, err := os.Lstat(m)
		if err != nil {
			continue
		}
		results = append(results, toResult(m, info))
	}
	sortResults(results)
	return results, nil
}

// Recent returns files under root modified within the given window,
// newest first, capped at limit.
func (s *Service) Recent(ctx context.Context, root string, within time.Duration, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	cutoff := time.Now().Add(-within)

	var mu sync.Mutex
	var results []Result

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil || d.IsDir() {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil || info.ModTime().Before(cutoff) {
			return nil
		}
		mu.Lock()
		results = append(results, toResult(p, info))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recent %s: %w", root, err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModifiedAt.After(results[j].ModifiedAt)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ContentMatch is one line hit from a content search.
type ContentMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// maxContentFileSize skips files too large to scan line by line.
const maxContentFileSize = 10 << 20

// SearchContent scans files under root for a literal byte sequence,
// using a worker per CPU-ish pool. Binary-looking files are skipped.
func (s *Service) SearchContent(ctx context.Context, root, query string, extensions []string) ([]ContentMatch, error) {
	if query == "" {
		return nil, fmt.Errorf("search query required")
	}
	exts := extensionSet(extensions)
	needle := []byte(query)

	paths := make(chan string, 64)
	var mu sync.Mutex
	var matches []ContentMatch

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				hits := scanFile(p, needle)
				if len(hits) == 0 {
					continue
				}
				mu.Lock()
				matches = append(matches, hits...)
				mu.Unlock()
			}
		}()
	}

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		if info, ierr := d.Info(); ierr != nil || info.Size() > maxContentFileSize {
			return nil
		}
		paths <- p
		return nil
	})
	close(paths)
	wg.Wait()

	if walkErr != nil {
		return nil, fmt.Errorf("content search %s: %w", root, walkErr)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})
	return matches, nil
}

func scanFile(path string, needle []byte) []ContentMatch {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var hits []ContentMatch
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if line == 1 && bytes.ContainsRune(b, 0) {
			// Binary file; nothing useful to report.
			return nil
		}
		if bytes.Contains(b, needle) {
			hits = append(hits, ContentMatch{Path: path, Line: line, Text: string(b)})
		}
	}
	return hits
}

func matchInfo(info fs.FileInfo, opts Options) bool {
	if !info.IsDir() {
		if opts.MinSize > 0 && info.Size() < opts.MinSize {
			return false
		}
		if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
			return false
		}
	}
	if !opts.After.IsZero() && info.ModTime().Before(opts.After) {
		return false
	}
	if !opts.Before.IsZero() && info.ModTime().After(opts.Before) {
		return false
	}
	return true
}

func extensionSet(extensions []string) map[string]bool {
	if len(extensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

func toResult(path string, info fs.FileInfo) Result {
	return Result{
		Path:       path,
		Name:       info.Name(),
		Size:       info.Size(),
		IsDir:      info.IsDir(),
		ModifiedAt: info.ModTime(),
	}
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
}
