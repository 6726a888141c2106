package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// FanoutJob mirrors the job message consumed by the fan-out worker.
type FanoutJob struct {
	PostID    string   `json:"post_id"`
	AuthorID  string   `json:"author_id"`
	Followers []string `json:"followers"`
}

// Publishes synthetic fan-out jobs to Kafka to load-test worker-mode
// consumers without a front-end server.
func main() {
	var (
		broker     string
		topic      string
		total      int
		batchSize  int
		numWriters int
		fanSize    int
	)
	flag.StringVar(&broker, "broker", "localhost:9092", "Kafka broker address")
	flag.StringVar(&topic, "topic", "fanout-jobs", "Kafka topic")
	flag.IntVar(&total, "total", 100000, "total number of jobs to send")
	flag.IntVar(&batchSize, "batch", 100, "batch size for sending jobs")
	flag.IntVar(&numWriters, "writers", 4, "number of parallel producers")
	flag.IntVar(&fanSize, "followers", 50, "followers per job")
	flag.Parse()

	followers := make([]string, fanSize)
	for i := range followers {
		followers[i] = fmt.Sprintf("bench_follower_%d", i)
	}

	var sent int64
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < numWriters; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			writer := &kafka.Writer{
				Addr:         kafka.TCP(broker),
				Topic:        topic,
				Balancer:     &kafka.Hash{},
				BatchSize:    batchSize,
				BatchTimeout: 10 * time.Millisecond,
			}
			defer writer.Close()

			batch := make([]kafka.Message, 0, batchSize)
			for {
				n := atomic.AddInt64(&sent, 1)
				if n > int64(total) {
					break
				}

				job := FanoutJob{
					PostID:    fmt.Sprintf("bench_post_%d", n),
					AuthorID:  fmt.Sprintf("bench_author_%d", w),
					Followers: followers,
				}
				data, _ := json.Marshal(job)
				batch = append(batch, kafka.Message{
					Key:   []byte(job.AuthorID),
					Value: data,
				})

				if len(batch) == batchSize {
					if err := writer.WriteMessages(context.Background(), batch...); err != nil {
						fmt.Printf("writer %d: write failed: %v\n", w, err)
					}
					batch = batch[:0]
				}
			}
			if len(batch) > 0 {
				if err := writer.WriteMessages(context.Background(), batch...); err != nil {
					fmt.Printf("writer %d: final write failed: %v\n", w, err)
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("Sent %d jobs (%d appends each) in %v (%.0f jobs/s)\n",
		total, fanSize, elapsed, float64(total)/elapsed.Seconds())
}
