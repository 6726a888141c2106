package models

// User is a registered account. Profiles are immutable after creation.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Post is an authored piece of content. LikeCount and ReplyCount are cached
// copies of the per-post counters; the counters are the source of truth.
type Post struct {
	ID         string `json:"id"`
	AuthorID   string `json:"author_id"`
	Content    string `json:"content"`
	ImageURL   string `json:"image_url,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	Timestamp  int64  `json:"timestamp"` // milliseconds since epoch
	LikeCount  int    `json:"like_count"`
	ReplyCount int    `json:"reply_count"`
}

// FeedEntry references a post from a user's feed sequence. It carries the
// insertion timestamp, not the post's creation timestamp.
type FeedEntry struct {
	PostID    string `json:"post_id"`
	Timestamp int64  `json:"timestamp"`
}

// Counters holds the authoritative like/reply counts for one post.
type Counters struct {
	Likes   int `json:"likes"`
	Replies int `json:"replies"`
}

// Author is the subset of a user profile joined onto a hydrated post.
type Author struct {
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// HydratedPost is a feed read result: the post joined with the author
// profile, the live counters and the viewing user's like state.
type HydratedPost struct {
	Post
	Author *Author `json:"author"`
	Liked  bool    `json:"liked"`
}

// FanoutJob carries one post to the feeds of the author's followers. The
// follower set is a snapshot taken at submission time; users who follow
// after the post was created are not backfilled.
type FanoutJob struct {
	PostID    string   `json:"post_id"`
	AuthorID  string   `json:"author_id"`
	Followers []string `json:"followers"`
}
