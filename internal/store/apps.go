package store

import "os"

const appsKey = "apps"

// DefaultApps maps a lowercase file extension (with dot) to the command
// that opens it.
type DefaultApps map[string]string

// DefaultApps loads the association table.
func (s *Store) DefaultApps() (DefaultApps, error) {
	apps := make(DefaultApps)
	if err := s.Get(appsKey, &apps); err != nil {
		if os.IsNotExist(err) {
			return apps, nil
		}
		return nil, err
	}
	return apps, nil
}

// SetDefaultApp associates an extension with a command.
func (s *Store) SetDefaultApp(ext, command string) error {
	apps, err := s.DefaultApps()
	if err != nil {
		return err
	}
	apps[ext] = command
	return s.Set(appsKey, apps)
}

// DefaultAppFor returns the command for an extension, or "".
func (s *Store) DefaultAppFor(ext string) (string, error) {
	apps, err := s.DefaultApps()
	if err != nil {
		return "", err
	}
	return apps[ext], nil
}
