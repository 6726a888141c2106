package service

import (
	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
)

// Submitter accepts fan-out jobs. The local pipeline and the Kafka job
// publisher both satisfy it.
type Submitter interface {
	Submit(job models.FanoutJob) error
}

// FanoutService snapshots an author's followers and submits one fan-out
// job per post.
type FanoutService struct {
	store *store.Store
	queue Submitter
}

func NewFanoutService(st *store.Store, queue Submitter) *FanoutService {
	return &FanoutService{store: st, queue: queue}
}

// Fanout submits a job carrying the author's current follower set. An
// author with no followers succeeds trivially. A submit failure is
// returned for logging, but callers must not fail the write path on it:
// the post is already stored and fan-out is best effort.
func (s *FanoutService) Fanout(postID, authorID string) error {
	followers := s.store.GetFollowers(authorID)
	if len(followers) == 0 {
		logg.Debug("service/fanout", "No followers, skipping fan-out")
		return nil
	}

	return s.queue.Submit(models.FanoutJob{
		PostID:    postID,
		AuthorID:  authorID,
		Followers: followers,
	})
}
