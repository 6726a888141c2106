package broker

import (
	"encoding/json"
	"testing"

	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
)

func TestJobPublisher_Submit(t *testing.T) {
	mock := &MockJobQueue{}
	pub := NewJobPublisher(mock)

	job := models.FanoutJob{
		PostID:    "p1",
		AuthorID:  "alice",
		Followers: []string{"bob", "charlie"},
	}
	if err := pub.Submit(job); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(mock.WrittenMessages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.WrittenMessages))
	}
	msg := mock.WrittenMessages[0]
	if string(msg.Key) != "alice" {
		t.Fatalf("message key = %s, want author ID", msg.Key)
	}

	var decoded models.FanoutJob
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.PostID != job.PostID || len(decoded.Followers) != 2 {
		t.Fatalf("round-tripped job mismatch: %+v", decoded)
	}
}

func TestJobPublisher_WriteFailure(t *testing.T) {
	pub := NewJobPublisher(&MockJobQueueFail{})
	err := pub.Submit(models.FanoutJob{PostID: "p1", AuthorID: "a", Followers: []string{"b"}})
	if err == nil {
		t.Fatal("expected write failure to surface")
	}
}

// With a backing store the mock applies jobs immediately, standing in for
// a zero-lag worker.
func TestMockJobQueue_AppliesToStore(t *testing.T) {
	st := store.New()
	mock := &MockJobQueue{Store: st}
	pub := NewJobPublisher(mock)

	err := pub.Submit(models.FanoutJob{
		PostID:    "p1",
		AuthorID:  "alice",
		Followers: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	feed := st.GetFeed("bob")
	if len(feed) != 1 || feed[0].PostID != "p1" {
		t.Fatalf("job not applied to store: %+v", feed)
	}
}
