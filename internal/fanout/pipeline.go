package fanout

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"example.com/newsfeed/internal/logger"
	"example.com/newsfeed/internal/models"
)

var logg = logger.New()

// ErrClosed is returned by Submit after the pipeline has been shut down.
var ErrClosed = errors.New("fanout: pipeline closed")

// FeedStore is the slice of the store the pipeline writes to.
type FeedStore interface {
	AppendFeedEntry(userID string, entry models.FeedEntry)
}

// Pipeline propagates new posts into follower feeds asynchronously: an
// unbounded FIFO queue feeds a single dispatcher, which hands each job to
// one of a fixed set of workers round-robin. A job's per-follower appends
// all run inside the one worker that received it, so every follower of a
// job gets exactly one entry with one shared timestamp. Ordering across
// jobs on different workers is not guaranteed.
type Pipeline struct {
	store FeedStore
	delay time.Duration // simulated per-job processing cost

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []models.FanoutJob
	closed bool

	workers []chan models.FanoutJob
	wg      sync.WaitGroup
}

// New starts the dispatcher and workerCount workers. A non-positive
// workerCount defaults to the number of CPUs. delay is slept by a worker
// after each job to simulate fan-out cost; pass 0 to disable.
func New(store FeedStore, workerCount int, delay time.Duration) *Pipeline {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	p := &Pipeline{
		store:   store,
		delay:   delay,
		workers: make([]chan models.FanoutJob, workerCount),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := range p.workers {
		ch := make(chan models.FanoutJob, 16)
		p.workers[i] = ch
		p.wg.Add(1)
		go func(id int, jobs <-chan models.FanoutJob) {
			defer p.wg.Done()
			p.workLoop(id, jobs)
		}(i, ch)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.dispatch()
	}()

	logg.Info("fanout", "Pipeline started with "+fmt.Sprint(workerCount)+" workers")
	return p
}

// Submit enqueues a job without blocking on worker availability. The queue
// is unbounded, so enqueue latency is independent of follower-set size and
// worker saturation. Fails only after Close.
func (p *Pipeline) Submit(job models.FanoutJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.queue = append(p.queue, job)
	p.cond.Signal()
	return nil
}

// Close stops intake, drains the queue and waits for in-flight jobs to
// finish. Every job submitted before Close runs to completion.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	logg.Info("fanout", "Pipeline stopped")
}

// dispatch consumes jobs in submission order and assigns them to workers
// round-robin.
func (p *Pipeline) dispatch() {
	next := 0
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			for _, ch := range p.workers {
				close(ch)
			}
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.workers[next] <- job
		next = (next + 1) % len(p.workers)
	}
}

// workLoop applies jobs: one feed entry per job, stamped once, appended to
// every follower in the job's snapshot.
func (p *Pipeline) workLoop(id int, jobs <-chan models.FanoutJob) {
	for job := range jobs {
		entry := models.FeedEntry{
			PostID:    job.PostID,
			Timestamp: time.Now().UnixMilli(),
		}
		for _, followerID := range job.Followers {
			p.store.AppendFeedEntry(followerID, entry)
		}
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		logg.Debug("fanout", "Worker "+fmt.Sprint(id)+" delivered post to "+fmt.Sprint(len(job.Followers))+" followers")
	}
}
