package service

import (
	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
)

// FeedService reads a user's precomputed feed and hydrates each entry
// against the store.
type FeedService struct {
	store *store.Store
}

func NewFeedService(st *store.Store) *FeedService {
	return &FeedService{store: st}
}

// GetFeed returns up to limit hydrated posts from viewerID's feed, newest
// first. Entries whose post no longer resolves are skipped. A missing
// author profile leaves Author nil rather than erroring. The live counters
// overwrite the post's cached counts, and Liked reflects the viewing
// user's own like state.
func (s *FeedService) GetFeed(viewerID string, limit int) []models.HydratedPost {
	entries := s.store.GetFeed(viewerID)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	feed := make([]models.HydratedPost, 0, len(entries))
	for _, entry := range entries {
		post, ok := s.store.GetPost(entry.PostID)
		if !ok {
			continue
		}

		var author *models.Author
		if user, ok := s.store.GetUser(post.AuthorID); ok {
			author = &models.Author{
				Username:       user.Username,
				ProfilePicture: user.ProfilePicture,
			}
		}

		counters := s.store.GetCounters(post.ID)
		post.LikeCount = counters.Likes
		post.ReplyCount = counters.Replies

		feed = append(feed, models.HydratedPost{
			Post:   post,
			Author: author,
			Liked:  s.store.HasLiked(viewerID, post.ID),
		})
	}
	return feed
}
