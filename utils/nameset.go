package utils

// NameSet tracks display names already seen in a batch.
type NameSet struct {
	seen map[string]struct{}
}

// NewNameSet creates an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]struct{})}
}

// Add returns true if the name was newly added, false if already present.
func (s *NameSet) Add(name string) bool {
	if _, exists := s.seen[name]; exists {
		return false
	}
	s.seen[name] = struct{}{}
	return true
}

// Contains returns true if the name has already been added.
func (s *NameSet) Contains(name string) bool {
	_, exists := s.seen[name]
	return exists
}

// Size returns the number of unique names tracked.
func (s *NameSet) Size() int {
	return len(s.seen)
}
