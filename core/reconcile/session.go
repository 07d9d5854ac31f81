package reconcile

import "stock-sync/core/sku"

// Session is the deduplication state of one catalog-to-record pass. It is
// created by Engine.Run and dropped when the run returns.
type Session struct {
	synced map[sku.Key]struct{}
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{synced: make(map[sku.Key]struct{})}
}

// Seen reports whether key was already processed in this session.
func (s *Session) Seen(key sku.Key) bool {
	_, ok := s.synced[key]
	return ok
}

// Mark records key as processed.
func (s *Session) Mark(key sku.Key) {
	s.synced[key] = struct{}{}
}

// Len returns the number of processed keys.
func (s *Session) Len() int {
	return len(s.synced)
}
