package apiclient

import (
	"encoding/json"
	"os"
	"sync"
)

// DismissalStore persists the set of dismissed notification IDs in a local
// JSON file. Dismissal is client-side state: the server keeps deriving the
// notification, the client just stops showing it. Deterministic notification
// IDs make the set survive recomputation.
type DismissalStore struct {
	mu        sync.Mutex
	path      string
	dismissed map[string]struct{}
}

func NewDismissalStore(path string) (*DismissalStore, error) {
	s := &DismissalStore{
		path:      path,
		dismissed: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.dismissed[id] = struct{}{}
	}
	return s, nil
}

func (s *DismissalStore) Dismiss(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[id] = struct{}{}
	return s.save()
}

func (s *DismissalStore) Restore(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dismissed, id)
	return s.save()
}

func (s *DismissalStore) IsDismissed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dismissed[id]
	return ok
}

// Filter returns the items whose ID is not dismissed, preserving order.
func Filter[T any](s *DismissalStore, items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !s.IsDismissed(id(item)) {
			out = append(out, item)
		}
	}
	return out
}

// save writes the ID list; callers hold s.mu.
func (s *DismissalStore) save() error {
	ids := make([]string, 0, len(s.dismissed))
	for id := range s.dismissed {
		ids = append(ids, id)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
