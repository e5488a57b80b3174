package nav

// SelectionModel tracks which entries of the current listing are
// selected, by address key. It is independent of filesystem vs archive:
// keys are whatever Entry.Address.Key() yields. A refresh or navigation
// clears it; the model never outlives the listing it was built against.
type SelectionModel struct {
	selected map[string]struct{}
	order    []string
}

// NewSelection returns an empty selection.
func NewSelection() *SelectionModel {
	return &SelectionModel{selected: make(map[string]struct{})}
}

// Toggle adds key if absent and removes it if present (multi-select
// modifier).
func (s *SelectionModel) Toggle(key string) {
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.selected[key] = struct{}{}
	s.order = append(s.order, key)
}

// Replace clears the selection and selects only key (plain click).
func (s *SelectionModel) Replace(key string) {
	s.Clear()
	s.Toggle(key)
}

// ExtendRange adds every key between from and to (inclusive) in the
// currently visible order. If from is not present in visible, only to is
// selected.
func (s *SelectionModel) ExtendRange(from, to string, visible []string) {
	fromIdx, toIdx := -1, -1
	for i, k := range visible {
		if k == from {
			fromIdx = i
		}
		if k == to {
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		s.add(to)
		return
	}
	if fromIdx > toIdx {
		fromIdx, toIdx = toIdx, fromIdx
	}
	for _, k := range visible[fromIdx : toIdx+1] {
		s.add(k)
	}
}

// Clear removes every selected key.
func (s *SelectionModel) Clear() {
	s.selected = make(map[string]struct{})
	s.order = s.order[:0]
}

// Contains reports whether key is selected.
func (s *SelectionModel) Contains(key string) bool {
	_, ok := s.selected[key]
	return ok
}

// Keys returns the selected keys in the order they were selected.
func (s *SelectionModel) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of selected keys.
func (s *SelectionModel) Len() int { return len(s.selected) }

func (s *SelectionModel) add(key string) {
	if _, ok := s.selected[key]; ok {
		return
	}
	s.selected[key] = struct{}{}
	s.order = append(s.order, key)
}
