package tracker

import "sync"

// Session holds the last observed invite-usage snapshot for one community.
// Its lifecycle follows the platform connection: established wipes state,
// lost wipes state, so a reconnect never diffs against a stale baseline.
type Session struct {
	mu          sync.Mutex
	communityID string
	snapshot    map[string]int
	primed      bool
}

func NewSession(communityID string) *Session {
	return &Session{communityID: communityID}
}

func (s *Session) CommunityID() string {
	return s.communityID
}

// ConnectionEstablished resets the session for a fresh connection.
func (s *Session) ConnectionEstablished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.primed = false
}

// ConnectionLost drops the snapshot; usage counts may move arbitrarily while
// disconnected.
func (s *Session) ConnectionLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.primed = false
}

// Observe replaces the stored snapshot wholesale and returns the code whose
// use count increased since the previous observation. The second return is
// false on the first observation after a (re)connect, when no baseline
// exists.
//
// When several codes increased at once only one is reported; the platform
// gives no signal to disambiguate concurrent joins.
func (s *Session) Observe(latest map[string]int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshot
	hadBaseline := s.primed

	s.snapshot = latest
	s.primed = true

	if !hadBaseline {
		return "", false
	}

	for code, uses := range latest {
		if uses > prev[code] {
			return code, true
		}
	}
	return "", true
}

// Primed reports whether a baseline snapshot exists.
func (s *Session) Primed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primed
}
