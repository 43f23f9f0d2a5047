package service

import "sync"

// Selection is the set of evidence IDs a user has picked for a batch. It is passed
// explicitly into the analysis orchestrator, which clears it when a batch finishes.
type Selection struct {
	mu  sync.Mutex
	ids []string
}

// NewSelection returns a selection holding ids in first-seen order without duplicates.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Selection) add(id string) {
	for _, existing := range s.ids {
		if existing == id {
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Toggle adds id if absent, removes it otherwise.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// IDs returns a copy of the selected IDs.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected IDs.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()
}
