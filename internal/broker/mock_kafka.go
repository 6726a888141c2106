package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"example.com/newsfeed/internal/models"
	"example.com/newsfeed/internal/store"
	"github.com/segmentio/kafka-go"
)

// MockJobQueue simulates the Kafka job transport in tests. Written jobs
// are captured; if Store is set they are also applied immediately, as if a
// worker consumed them with zero lag.
type MockJobQueue struct {
	Store           *store.Store
	WrittenMessages []kafka.Message // jobs written via WriteMessages
	ReadMessages    []kafka.Message // queue of jobs returned by ReadMessage
	ShouldFail      bool            // simulate transport failures
}

// WriteMessages captures the job and, when Store is set, fans it out to
// the followers carried in the job snapshot.
func (m *MockJobQueue) WriteMessages(messages ...kafka.Message) error {
	if m.ShouldFail {
		return errors.New("mock kafka write failed")
	}

	m.WrittenMessages = append(m.WrittenMessages, messages...)
	if m.Store == nil {
		return nil
	}

	for _, msg := range messages {
		var job models.FanoutJob
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			return err
		}
		entry := models.FeedEntry{
			PostID:    job.PostID,
			Timestamp: time.Now().UnixMilli(),
		}
		for _, followerID := range job.Followers {
			m.Store.AppendFeedEntry(followerID, entry)
		}
	}
	return nil
}

// ReadMessage pops the next queued job message.
func (m *MockJobQueue) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if m.ShouldFail {
		return kafka.Message{}, errors.New("mock kafka read failed")
	}
	if len(m.ReadMessages) == 0 {
		return kafka.Message{}, errors.New("no messages")
	}
	msg := m.ReadMessages[0]
	m.ReadMessages = m.ReadMessages[1:]
	return msg, nil
}

// Close is a no-op.
func (m *MockJobQueue) Close() error { return nil }

// MockJobQueueFail always fails.
type MockJobQueueFail struct{}

func (m *MockJobQueueFail) WriteMessages(messages ...kafka.Message) error {
	return errors.New("mock kafka write failed")
}

func (m *MockJobQueueFail) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("mock kafka read failed")
}

func (m *MockJobQueueFail) Close() error { return nil }
