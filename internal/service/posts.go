package service

import (
	"time"

	"example.com/newsfeed/internal/logger"
	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
	"github.com/google/uuid"
)

var logg = logger.New()

// PostService creates posts and writes them to the store.
type PostService struct {
	store *store.Store
}

func NewPostService(st *store.Store) *PostService {
	return &PostService{store: st}
}

// Create builds a post with a fresh unique ID and the current timestamp,
// stores it and returns it. Counters start at zero.
func (s *PostService) Create(authorID, content, imageURL, videoURL string) models.Post {
	post := models.Post{
		ID:        "post_" + uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		ImageURL:  imageURL,
		VideoURL:  videoURL,
		Timestamp: time.Now().UnixMilli(),
	}
	s.store.PutPost(post)
	logg.Info("service/posts", "Post created (content anonymized)")
	return post
}

// GetPost returns the stored post, hot table first.
func (s *PostService) GetPost(postID string) (models.Post, bool) {
	return s.store.GetPost(postID)
}
