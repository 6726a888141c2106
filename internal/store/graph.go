package store

import "sync"

// socialGraph keeps the two derived follow indices under one lock so that a
// reader of either index always sees both halves of an edge or neither.
// The symmetry guarantee outranks per-key lock independence here.
type socialGraph struct {
	mu        sync.RWMutex
	followers map[string]map[string]struct{} // user -> who follows them
	following map[string]map[string]struct{} // user -> who they follow
}

func newSocialGraph() *socialGraph {
	return &socialGraph{
		followers: make(map[string]map[string]struct{}),
		following: make(map[string]map[string]struct{}),
	}
}

// AddFollow records that followerID follows targetID, updating both indices
// atomically. Re-adding an existing edge is a no-op. There is no removal
// path.
func (s *Store) AddFollow(targetID, followerID string) {
	g := s.graph
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.followers[targetID] == nil {
		g.followers[targetID] = make(map[string]struct{})
	}
	if g.following[followerID] == nil {
		g.following[followerID] = make(map[string]struct{})
	}
	g.followers[targetID][followerID] = struct{}{}
	g.following[followerID][targetID] = struct{}{}
}

// GetFollowers returns the IDs of users following userID.
func (s *Store) GetFollowers(userID string) []string {
	g := s.graph
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyIDSet(g.followers[userID])
}

// GetFollowing returns the IDs of users that userID follows.
func (s *Store) GetFollowing(userID string) []string {
	g := s.graph
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyIDSet(g.following[userID])
}

func copyIDSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
