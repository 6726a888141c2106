package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"example.com/newsfeed/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

const defaultFeedLimit = 20

// --- HTTP Handlers ---

// createUserHandler handles POST requests to register a user.
// Expects JSON body: {"username": "alice", "profile_picture": "..."}
// Returns JSON response: {"user_id": <id>, "token": <jwt>}
// Registration is idempotent per username.
func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username       string `json:"username"`
		ProfilePicture string `json:"profile_picture"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/users", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(body.Username) == 0 || len(body.Username) > 50 {
		logg.Info("http/users", "Invalid username length")
		http.Error(w, "username must be 1-50 characters", http.StatusBadRequest)
		return
	}

	userID := s.store.CreateUser(body.Username, body.ProfilePicture)

	secret := []byte(os.Getenv("JWT_SECRET"))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenStr, err := token.SignedString(secret)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"user_id": userID,
		"token":   tokenStr,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// createPostHandler stores a new post and kicks off best-effort fan-out.
// Expects JSON body: {"content": "...", "image_url": "...", "video_url": "..."}
// The response succeeds as soon as the post is stored; a fan-out submit
// failure is logged but never fails the write path.
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		VideoURL string `json:"video_url"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/posts", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logg.Info("http/posts", "Unauthorized post creation attempt")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if len(body.Content) == 0 || len(body.Content) > 1000 {
		logg.Info("http/posts", "Post content length invalid")
		http.Error(w, "post content must be 1-1000 characters", http.StatusBadRequest)
		return
	}

	post := s.posts.Create(userID, body.Content, body.ImageURL, body.VideoURL)

	if err := s.fanout.Fanout(post.ID, userID); err != nil {
		logg.Error("http/posts", "Fan-out submit failed, post still stored", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"post_id": post.ID,
	})
}

// getFeedHandler returns the caller's hydrated feed, newest first.
// Query parameters: ?limit=20
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logg.Info("http/feed", "Unauthorized feed access attempt")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultFeedLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	feed := s.feed.GetFeed(userID, limit)

	logg.Info("http/feed", "Feed retrieved with limit="+strconv.Itoa(limit))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"feed": feed})
}

// followHandler makes the caller follow another user.
// Expects JSON body: {"target_user_id": "..."}
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		TargetUserID string `json:"target_user_id"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/follow", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logg.Info("http/follow", "Unauthorized follow attempt")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if body.TargetUserID == "" {
		http.Error(w, "target_user_id is required", http.StatusBadRequest)
		return
	}

	s.store.AddFollow(body.TargetUserID, userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// likeHandler records a like by the caller on a post.
// Expects JSON body: {"post_id": "..."}
func (s *Server) likeHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		PostID string `json:"post_id"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/likes", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logg.Info("http/likes", "Unauthorized like attempt")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if body.PostID == "" {
		http.Error(w, "post_id is required", http.StatusBadRequest)
		return
	}

	s.store.RecordLike(userID, body.PostID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true})
}
