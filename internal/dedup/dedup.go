package dedup

import "sync"

// SeenSet holds the links accepted for processing during one run.
type SeenSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// CheckAndAdd records link and reports whether it was new. The check and
// the insert happen under one lock, so concurrent callers with the same
// link get exactly one true.
func (s *SeenSet) CheckAndAdd(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.seen[link]; exists {
		return false
	}
	s.seen[link] = struct{}{}
	return true
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
