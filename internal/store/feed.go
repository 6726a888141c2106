package store

import (
	"sync"

	"example.com/newsfeed/internal/models"
)

// MaxFeedEntries bounds every per-user feed sequence. Insertion beyond the
// bound evicts the oldest entries.
const MaxFeedEntries = 1000

// feedSeq is one user's feed: a newest-first sequence of entries guarded by
// its own mutex.
type feedSeq struct {
	mu      sync.RWMutex
	entries []models.FeedEntry
}

// AppendFeedEntry prepends entry to userID's feed and truncates the
// sequence to the MaxFeedEntries most recent entries.
func (s *Store) AppendFeedEntry(userID string, entry models.FeedEntry) {
	seq := s.feeds.getOrCreate(userID, func() *feedSeq { return &feedSeq{} })

	seq.mu.Lock()
	defer seq.mu.Unlock()

	if len(seq.entries) < MaxFeedEntries {
		seq.entries = append(seq.entries, models.FeedEntry{})
	}
	copy(seq.entries[1:], seq.entries)
	seq.entries[0] = entry
}

// GetFeed returns a copy of userID's feed, newest first.
func (s *Store) GetFeed(userID string) []models.FeedEntry {
	seq, ok := s.feeds.get(userID)
	if !ok {
		return nil
	}
	seq.mu.RLock()
	defer seq.mu.RUnlock()
	out := make([]models.FeedEntry, len(seq.entries))
	copy(out, seq.entries)
	return out
}
