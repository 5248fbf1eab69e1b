package usecases

// LockedMaps reports how many map ids currently hold a lock entry.
func LockedMaps(s *MapService) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
