package server

import (
	"context"
	"net/http"
	"time"

	"example.com/newsfeed/internal/logger"
	"example.com/newsfeed/internal/middleware"
	"example.com/newsfeed/internal/service"
	"example.com/newsfeed/internal/store"
)

var logg = logger.New()

type Server struct {
	store  *store.Store
	posts  *service.PostService
	fanout *service.FanoutService
	feed   *service.FeedService
}

// New wires the transport layer onto the core services.
func New(st *store.Store, posts *service.PostService, fanout *service.FanoutService, feed *service.FeedService) *Server {
	return &Server{
		store:  st,
		posts:  posts,
		fanout: fanout,
		feed:   feed,
	}
}

// Handler returns the route tree: JWT-protected feed endpoints plus public
// user registration.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/v1/posts", middleware.JWTAuth(http.HandlerFunc(s.createPostHandler)))
	mux.Handle("/v1/feed", middleware.JWTAuth(http.HandlerFunc(s.getFeedHandler)))
	mux.Handle("/v1/follow", middleware.JWTAuth(http.HandlerFunc(s.followHandler)))
	mux.Handle("/v1/likes", middleware.JWTAuth(http.HandlerFunc(s.likeHandler)))

	mux.Handle("/users", http.HandlerFunc(s.createUserHandler))

	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("server", "Starting HTTP server on "+addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("server", "Server stopped unexpectedly", err)
		}
	}()

	<-ctx.Done()
	logg.Info("server", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server", "Error during server shutdown", err)
	} else {
		logg.Info("server", "Server stopped gracefully")
	}
}
