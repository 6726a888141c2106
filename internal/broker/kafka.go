package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"example.com/newsfeed/internal/models"
	"github.com/segmentio/kafka-go"
)

// JobWriter defines an interface for writing fan-out job messages to Kafka.
type JobWriter interface {
	WriteMessages(messages ...kafka.Message) error
	Close() error
}

// JobReader defines an interface for reading fan-out job messages from Kafka.
type JobReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConfig holds configuration parameters for Kafka.
type KafkaConfig struct {
	Brokers      []string      // list of Kafka brokers
	Topic        string        // topic name
	Partition    int           // partition number (used for low-level writes)
	WriteTimeout time.Duration // write timeout duration
	ReadTimeout  time.Duration // read timeout duration (used for consumer group)
	GroupID      string        // consumer group ID
}

// KafkaJobWriter implements JobWriter using kafka.Conn (low-level writes).
type KafkaJobWriter struct {
	conn   *kafka.Conn
	config KafkaConfig
}

// NewKafkaJobWriter creates a new Kafka writer connection.
func NewKafkaJobWriter(cfg KafkaConfig) (*KafkaJobWriter, error) {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	conn, err := kafka.DialLeader(context.Background(), "tcp", cfg.Brokers[0], cfg.Topic, cfg.Partition)
	if err != nil {
		return nil, err
	}

	return &KafkaJobWriter{
		conn:   conn,
		config: cfg,
	}, nil
}

func (w *KafkaJobWriter) WriteMessages(messages ...kafka.Message) error {
	if w.conn == nil {
		return errors.New("kafka connection is nil")
	}
	w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	_, err := w.conn.WriteMessages(messages...)
	return err
}

func (w *KafkaJobWriter) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

// KafkaJobReader implements JobReader using kafka.Reader (consumer group).
type KafkaJobReader struct {
	reader *kafka.Reader
}

// NewKafkaJobReader creates a new Kafka consumer group reader.
func NewKafkaJobReader(cfg KafkaConfig) JobReader {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
	return &KafkaJobReader{reader: r}
}

func (r *KafkaJobReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return r.reader.ReadMessage(ctx)
}

func (r *KafkaJobReader) Close() error {
	return r.reader.Close()
}

// JobPublisher adapts a JobWriter to the fan-out Submitter contract:
// submitted jobs are serialized and published to the fan-out topic for a
// separate worker process to apply.
type JobPublisher struct {
	writer JobWriter
}

func NewJobPublisher(writer JobWriter) *JobPublisher {
	return &JobPublisher{writer: writer}
}

// Submit publishes one fan-out job keyed by author so one author's jobs
// land on one partition in submission order.
func (p *JobPublisher) Submit(job models.FanoutJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(kafka.Message{
		Key:   []byte(job.AuthorID),
		Value: data,
	})
}
