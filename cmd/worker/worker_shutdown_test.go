package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
	"github.com/segmentio/kafka-go"
)

// TestWorker_GracefulShutdown ensures that the worker:
// 1. Consumes fan-out jobs from Kafka.
// 2. Updates followers' feeds correctly.
// 3. Shuts down gracefully when the context is canceled.
func TestWorker_GracefulShutdown(t *testing.T) {
	st := store.New()

	job := models.FanoutJob{
		PostID:    "p100",
		AuthorID:  "author",
		Followers: []string{"follower"},
	}
	data, _ := json.Marshal(job)

	mockReader := &slowJobReader{
		Messages: []kafka.Message{{Value: data}},
	}

	// Context with timeout to simulate graceful shutdown signal
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})

	w := New(st, mockReader, 2, 4)

	go func() {
		w.Run(ctx) // Worker processes jobs until ctx.Done()
		close(done)
	}()

	select {
	case <-done:
		feed := st.GetFeed("follower")
		if len(feed) != 1 || feed[0].PostID != job.PostID {
			t.Fatalf("feed not updated correctly: %+v", feed)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not shutdown gracefully in time")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("worker Close() error: %v", err)
	}

	if !mockReader.Closed {
		t.Fatal("expected Kafka reader to be closed")
	}
}

// slowJobReader simulates a Kafka reader that idles once drained.
type slowJobReader struct {
	Messages []kafka.Message
	Closed   bool
}

func (m *slowJobReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	default:
	}

	if len(m.Messages) == 0 {
		time.Sleep(5 * time.Millisecond) // simulate idle wait
		return kafka.Message{}, nil
	}

	msg := m.Messages[0]
	m.Messages = m.Messages[1:]
	return msg, nil
}

func (m *slowJobReader) Close() error {
	m.Closed = true
	return nil
}
