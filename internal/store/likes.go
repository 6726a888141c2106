package store

import (
	"sync"

	"example.com/newsfeed/internal/models"
)

// likeSet records which posts one user has liked.
type likeSet struct {
	mu    sync.RWMutex
	liked map[string]bool
}

// postCounters holds the authoritative counters for one post.
type postCounters struct {
	mu      sync.RWMutex
	likes   int
	replies int
}

// RecordLike marks postID as liked by userID. Likes are strictly
// idempotent: the post's like counter increments only on the first like by
// a given user; repeats leave both the flag and the counter unchanged. The
// refreshed count is propagated into the cached post copies in both the
// primary and hot tables, monotonically so that concurrent likes never
// regress a cached count.
func (s *Store) RecordLike(userID, postID string) {
	ls := s.actions.getOrCreate(userID, func() *likeSet {
		return &likeSet{liked: make(map[string]bool)}
	})

	ls.mu.Lock()
	first := !ls.liked[postID]
	ls.liked[postID] = true
	ls.mu.Unlock()

	if !first {
		return
	}

	c := s.counters.getOrCreate(postID, func() *postCounters { return &postCounters{} })
	c.mu.Lock()
	c.likes++
	likes := c.likes
	c.mu.Unlock()

	refresh := func(cur models.Post, ok bool) (models.Post, bool) {
		if !ok || likes <= cur.LikeCount {
			return cur, false
		}
		cur.LikeCount = likes
		return cur, true
	}
	s.posts.update(postID, refresh)
	s.hotPosts.update(postID, refresh)
}

// HasLiked reports whether userID has liked postID.
func (s *Store) HasLiked(userID, postID string) bool {
	ls, ok := s.actions.get(userID)
	if !ok {
		return false
	}
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.liked[postID]
}

// GetCounters returns the live counters for postID, zero if the post has no
// recorded actions yet.
func (s *Store) GetCounters(postID string) models.Counters {
	c, ok := s.counters.get(postID)
	if !ok {
		return models.Counters{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.Counters{Likes: c.likes, Replies: c.replies}
}
