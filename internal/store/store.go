package store

import (
	"example.com/newsfeed/internal/logger"
	"example.com/newsfeed/internal/models"
	"github.com/google/uuid"
)

var logg = logger.New()

// HotLikeThreshold is the cached like count above which a post is promoted
// into the hot table on write.
const HotLikeThreshold = 100

// Store holds all in-memory application state: users, posts, the social
// graph, per-user feed sequences, like actions and per-post counters.
// Every container is mutex-striped per key; there is no store-wide lock.
// All methods are safe for concurrent use.
type Store struct {
	users     *shardedMap[models.User]
	usernames *shardedMap[string] // username -> user ID
	posts     *shardedMap[models.Post]
	hotPosts  *shardedMap[models.Post]
	graph     *socialGraph
	feeds     *shardedMap[*feedSeq]
	actions   *shardedMap[*likeSet]
	counters  *shardedMap[*postCounters]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     newShardedMap[models.User](),
		usernames: newShardedMap[string](),
		posts:     newShardedMap[models.Post](),
		hotPosts:  newShardedMap[models.Post](),
		graph:     newSocialGraph(),
		feeds:     newShardedMap[*feedSeq](),
		actions:   newShardedMap[*likeSet](),
		counters:  newShardedMap[*postCounters](),
	}
}

// --- User operations ---

// PutUser inserts or overwrites a user profile and indexes its username.
func (s *Store) PutUser(user models.User) {
	s.users.set(user.ID, user)
	if user.Username != "" {
		s.usernames.set(user.Username, user.ID)
	}
}

// GetUser returns the profile for userID.
func (s *Store) GetUser(userID string) (models.User, bool) {
	return s.users.get(userID)
}

// GetUserIDByUsername returns the user ID registered for username, or empty
// string if no such user exists.
func (s *Store) GetUserIDByUsername(username string) string {
	id, _ := s.usernames.get(username)
	return id
}

// CreateUser registers a user under username, generating a fresh ID. If the
// username is already taken the existing ID is returned; concurrent calls
// with the same username resolve to a single user.
func (s *Store) CreateUser(username, profilePicture string) string {
	var id string
	created := false
	s.usernames.update(username, func(cur string, ok bool) (string, bool) {
		if ok {
			id = cur
			return cur, false
		}
		id = uuid.NewString()
		created = true
		return id, true
	})
	if created {
		s.users.set(id, models.User{
			ID:             id,
			Username:       username,
			ProfilePicture: profilePicture,
		})
		logg.Info("store", "User created (username anonymized)")
	}
	return id
}

// --- Post operations ---

// PutPost inserts or overwrites a post in the primary table. Posts whose
// cached like count exceeds HotLikeThreshold are also written to the hot
// table so popular reads skip the primary table.
func (s *Store) PutPost(post models.Post) {
	if post.LikeCount > HotLikeThreshold {
		s.hotPosts.set(post.ID, post)
	}
	s.posts.set(post.ID, post)
}

// GetPost looks a post up in the hot table first, falling back to the
// primary table.
func (s *Store) GetPost(postID string) (models.Post, bool) {
	if post, ok := s.hotPosts.get(postID); ok {
		return post, true
	}
	return s.posts.get(postID)
}
