// Package places resolves the sidebar locations: the user's standard
// directories from the XDG user-dirs config, plus custom places the user
// pinned. Entries pointing at directories that no longer exist are kept
// but flagged, so the UI can offer to remove them.
package places

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/filewright/filewright/backend/internal/store"
	"go.uber.org/zap"
)

// Place is one sidebar entry.
type Place struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Icon   string `json:"icon"`
	Custom bool   `json:"custom"`
	Exists bool   `json:"exists"`
}

const customKey = "places"

// Service resolves standard and custom places.
type Service struct {
	home  string
	store *store.Store
	log   *zap.Logger
}

// NewService builds a places Service rooted at the user's home. The
// store holds custom places; it may be nil for a read-only view.
func NewService(home string, st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{home: home, store: st, log: log}
}

// List returns standard places followed by custom ones.
func (s *Service) List() ([]Place, error) {
	places := s.standard()
	if s.store != nil {
		custom, err := s.custom()
		if err != nil {
			return nil, err
		}
		places = append(places, custom...)
	}
	for i := range places {
		info, err := os.Stat(places[i].Path)
		places[i].Exists = err == nil && info.IsDir()
	}
	return places, nil
}

// Add pins a custom place. The name defaults to the directory's base
// name when empty.
func (s *Service) Add(name, path string) error {
	if name == "" {
		name = filepath.Base(path)
	}
	custom, err := s.custom()
	if err != nil {
		return err
	}
	for _, p := range custom {
		if p.Path == path {
			return nil
		}
	}
	custom = append(custom, Place{Name: name, Path: path, Icon: "folder", Custom: true})
	s.log.Info("place added", zap.String("name", name), zap.String("path", path))
	return s.store.Set(customKey, custom)
}

// Remove unpins a custom place by path. Standard places cannot be
// removed; removing an unknown path is a no-op.
func (s *Service) Remove(path string) error {
	custom, err := s.custom()
	if err != nil {
		return err
	}
	kept := custom[:0]
	for _, p := range custom {
		if p.Path != path {
			kept = append(kept, p)
		}
	}
	return s.store.Set(customKey, kept)
}

func (s *Service) custom() ([]Place, error) {
	var custom []Place
	if err := s.store.Get(customKey, &custom); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for i := range custom {
		custom[i].Custom = true
	}
	return custom, nil
}

// standard builds the fixed sidebar section: home first, then the XDG
// user dirs that resolve, with fallback names when the config is absent.
func (s *Service) standard() []Place {
	dirs := parseUserDirs(filepath.Join(s.home, ".config", "user-dirs.dirs"), s.home)

	places := []Place{{Name: "Home", Path: s.home, Icon: "home"}}
	for _, spec := range []struct {
		xdg, name, fallback, icon string
	}{
		{"XDG_DESKTOP_DIR", "Desktop", "Desktop", "desktop"},
		{"XDG_DOCUMENTS_DIR", "Documents", "Documents", "document"},
		{"XDG_DOWNLOAD_DIR", "Downloads", "Downloads", "download"},
		{"XDG_MUSIC_DIR", "Music", "Music", "music"},
		{"XDG_PICTURES_DIR", "Pictures", "Pictures", "image"},
		{"XDG_VIDEOS_DIR", "Videos", "Videos", "video"},
	} {
		path := dirs[spec.xdg]
		if path == "" {
			path = filepath.Join(s.home, spec.fallback)
		}
		if path == s.home {
			// user-dirs.dirs sets disabled entries to $HOME.
			continue
		}
		places = append(places, Place{Name: spec.name, Path: path, Icon: spec.icon})
	}
	return places
}

// parseUserDirs reads the freedesktop user-dirs.dirs format: lines of
// XDG_X_DIR="$HOME/X" with shell-style quoting.
func parseUserDirs(path, home string) map[string]string {
	dirs := make(map[string]string)
	f, err := os.Open(path)
	if err != nil {
		return dirs
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || !strings.HasPrefix(key, "XDG_") {
			continue
		}
		value = strings.Trim(value, `"`)
		value = strings.ReplaceAll(value, "$HOME", home)
		if !filepath.IsAbs(value) {
			continue
		}
		dirs[key] = value
	}
	return dirs
}
