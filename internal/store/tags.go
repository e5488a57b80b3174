package store

import (
	"os"
	"sort"
)

const tagsKey = "tags"

// Tags maps a tag name to the paths carrying it.
type Tags map[string][]string

// Tags loads the tag table; an empty store yields an empty table.
func (s *Store) Tags() (Tags, error) {
	tags := make(Tags)
	if err := s.Get(tagsKey, &tags); err != nil {
		if os.IsNotExist(err) {
			return tags, nil
		}
		return nil, err
	}
	return tags, nil
}

// AddTag tags a path. Adding an existing pair is a no-op.
func (s *Store) AddTag(tag, path string) error {
	tags, err := s.Tags()
	if err != nil {
		return err
	}
	for _, p := range tags[tag] {
		if p == path {
			return nil
		}
	}
	tags[tag] = append(tags[tag], path)
	sort.Strings(tags[tag])
	return s.Set(tagsKey, tags)
}

// RemoveTag untags a path. Empty tags are dropped from the table.
func (s *Store) RemoveTag(tag, path string) error {
	tags, err := s.Tags()
	if err != nil {
		return err
	}
	paths := tags[tag]
	kept := paths[:0]
	for _, p := range paths {
		if p != path {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		delete(tags, tag)
	} else {
		tags[tag] = kept
	}
	return s.Set(tagsKey, tags)
}

// TagsFor returns every tag applied to a path, sorted.
func (s *Store) TagsFor(path string) ([]string, error) {
	tags, err := s.Tags()
	if err != nil {
		return nil, err
	}
	var out []string
	for tag, paths := range tags {
		for _, p := range paths {
			if p == path {
				out = append(out, tag)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
