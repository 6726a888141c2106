package service

import (
	"errors"
	"testing"
	"time"

	"example.com/newsfeed/internal/fanout"
	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
)

// captureQueue records submitted jobs without running them.
type captureQueue struct {
	jobs []models.FanoutJob
	err  error
}

func (q *captureQueue) Submit(job models.FanoutJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// --- PostService ---

func TestPostService_Create(t *testing.T) {
	st := store.New()
	svc := NewPostService(st)

	before := time.Now().UnixMilli()
	post := svc.Create("u1", "hello", "img.jpg", "")
	after := time.Now().UnixMilli()

	if post.ID == "" {
		t.Fatal("expected non-empty post ID")
	}
	if post.AuthorID != "u1" || post.Content != "hello" || post.ImageURL != "img.jpg" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.Timestamp < before || post.Timestamp > after {
		t.Fatalf("timestamp %d outside [%d, %d]", post.Timestamp, before, after)
	}
	if post.LikeCount != 0 || post.ReplyCount != 0 {
		t.Fatalf("counters must start at zero: %+v", post)
	}

	stored, ok := st.GetPost(post.ID)
	if !ok || stored.ID != post.ID {
		t.Fatalf("post not stored: %+v ok=%v", stored, ok)
	}
}

func TestPostService_Create_UniqueIDs(t *testing.T) {
	st := store.New()
	svc := NewPostService(st)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		post := svc.Create("u1", "x", "", "")
		if seen[post.ID] {
			t.Fatalf("duplicate post ID %s", post.ID)
		}
		seen[post.ID] = true
	}
}

// --- FanoutService ---

func TestFanoutService_SnapshotsFollowers(t *testing.T) {
	st := store.New()
	st.AddFollow("alice", "bob")
	st.AddFollow("alice", "charlie")

	q := &captureQueue{}
	svc := NewFanoutService(st, q)

	if err := svc.Fanout("p1", "alice"); err != nil {
		t.Fatalf("fanout failed: %v", err)
	}

	if len(q.jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(q.jobs))
	}
	job := q.jobs[0]
	if job.PostID != "p1" || job.AuthorID != "alice" || len(job.Followers) != 2 {
		t.Fatalf("unexpected job: %+v", job)
	}

	// The snapshot is fixed at submission: a later follower does not appear
	// in the already-built job.
	st.AddFollow("alice", "dave")
	if len(q.jobs[0].Followers) != 2 {
		t.Fatal("job snapshot mutated after submission")
	}
}

func TestFanoutService_NoFollowersIsTrivialSuccess(t *testing.T) {
	st := store.New()
	q := &captureQueue{}
	svc := NewFanoutService(st, q)

	if err := svc.Fanout("p1", "loner"); err != nil {
		t.Fatalf("expected trivial success, got %v", err)
	}
	if len(q.jobs) != 0 {
		t.Fatalf("no job should be submitted for zero followers, got %d", len(q.jobs))
	}
}

func TestFanoutService_SubmitFailureReported(t *testing.T) {
	st := store.New()
	st.AddFollow("alice", "bob")

	q := &captureQueue{err: errors.New("queue down")}
	svc := NewFanoutService(st, q)

	if err := svc.Fanout("p1", "alice"); err == nil {
		t.Fatal("expected submit failure to surface")
	}
}

func TestFanoutService_PipelineClosed(t *testing.T) {
	st := store.New()
	st.AddFollow("alice", "bob")

	p := fanout.New(st, 1, 0)
	p.Close()

	svc := NewFanoutService(st, p)
	if err := svc.Fanout("p1", "alice"); !errors.Is(err, fanout.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

// --- FeedService ---

func hydrationFixture(t *testing.T) (*store.Store, *FeedService, models.Post) {
	t.Helper()
	st := store.New()
	st.PutUser(models.User{ID: "alice", Username: "alice", ProfilePicture: "alice.jpg"})
	post := models.Post{ID: "p1", AuthorID: "alice", Content: "hello", Timestamp: 42}
	st.PutPost(post)
	st.AppendFeedEntry("bob", models.FeedEntry{PostID: "p1", Timestamp: 43})
	return st, NewFeedService(st), post
}

func TestFeedService_Hydration(t *testing.T) {
	st, svc, _ := hydrationFixture(t)
	st.RecordLike("carol", "p1")

	feed := svc.GetFeed("bob", 20)
	if len(feed) != 1 {
		t.Fatalf("feed length %d, want 1", len(feed))
	}

	hp := feed[0]
	if hp.Content != "hello" || hp.Author == nil || hp.Author.Username != "alice" {
		t.Fatalf("bad hydration: %+v", hp)
	}
	// The joined counters, not the cached copy, are surfaced.
	if hp.LikeCount != 1 {
		t.Fatalf("like count %d, want 1", hp.LikeCount)
	}
	// Viewer's own like state, not the liker's.
	if hp.Liked {
		t.Fatal("bob has not liked the post")
	}

	liked := svc.GetFeed("carol", 20)
	// carol has no feed entries; liked flag is checked through bob's view
	// after carol's like only.
	if len(liked) != 0 {
		t.Fatalf("carol should have an empty feed, got %d", len(liked))
	}
}

func TestFeedService_ViewerLikeFlag(t *testing.T) {
	st, svc, _ := hydrationFixture(t)
	st.RecordLike("bob", "p1")

	feed := svc.GetFeed("bob", 20)
	if len(feed) != 1 || !feed[0].Liked {
		t.Fatalf("expected liked=true for bob: %+v", feed)
	}
}

func TestFeedService_TombstoneSkipped(t *testing.T) {
	st, svc, _ := hydrationFixture(t)
	st.AppendFeedEntry("bob", models.FeedEntry{PostID: "deleted-post", Timestamp: 44})

	feed := svc.GetFeed("bob", 20)
	if len(feed) != 1 || feed[0].ID != "p1" {
		t.Fatalf("unresolvable entry must be silently skipped: %+v", feed)
	}
}

func TestFeedService_AbsentAuthor(t *testing.T) {
	st := store.New()
	st.PutPost(models.Post{ID: "p1", AuthorID: "ghost", Content: "boo"})
	st.AppendFeedEntry("bob", models.FeedEntry{PostID: "p1"})

	feed := NewFeedService(st).GetFeed("bob", 20)
	if len(feed) != 1 {
		t.Fatalf("feed length %d, want 1", len(feed))
	}
	if feed[0].Author != nil {
		t.Fatalf("missing author must hydrate as nil, got %+v", feed[0].Author)
	}
}

func TestFeedService_LimitTruncatesNewestFirst(t *testing.T) {
	st := store.New()
	svc := NewFeedService(st)
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		st.PutPost(models.Post{ID: id, AuthorID: "u", Content: id})
		st.AppendFeedEntry("bob", models.FeedEntry{PostID: id, Timestamp: int64(i)})
	}

	feed := svc.GetFeed("bob", 3)
	if len(feed) != 3 {
		t.Fatalf("feed length %d, want 3", len(feed))
	}
	// limit truncates, never reorders: newest three in stored order.
	want := []string{"j", "i", "h"}
	for i, hp := range feed {
		if hp.ID != want[i] {
			t.Fatalf("feed[%d] = %s, want %s", i, hp.ID, want[i])
		}
	}
}

func TestFeedService_EmptyFeed(t *testing.T) {
	st := store.New()
	feed := NewFeedService(st).GetFeed("nobody", 20)
	if len(feed) != 0 {
		t.Fatalf("expected empty feed, got %d", len(feed))
	}
}
