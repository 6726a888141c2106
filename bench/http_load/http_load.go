package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// UserResp represents the response returned by the server after registration
type UserResp struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// PostReq represents the JSON payload for creating a post
type PostReq struct {
	Content string `json:"content"`
}

// FollowReq represents the JSON payload for following a user
type FollowReq struct {
	TargetUserID string `json:"target_user_id"`
}

// LikeReq represents the JSON payload for liking a post
type LikeReq struct {
	PostID string `json:"post_id"`
}

func main() {
	// --- Command-line flags ---
	var server string
	var duration int
	var concurrency int
	var csvFile string
	var trimPercent float64

	flag.StringVar(&server, "server", "http://localhost:8080", "server base URL")
	flag.IntVar(&duration, "duration", 30, "duration in seconds")
	flag.IntVar(&concurrency, "c", 50, "number of concurrent goroutines / users")
	flag.StringVar(&csvFile, "csv", "latencies.csv", "CSV file to save latencies")
	flag.Float64Var(&trimPercent, "trim", 1.0, "percent of latency to trim from top and bottom for trimmed mean")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// --- Register users and build a follow graph ---
	// Every user follows user 0, so each post by user 0 fans out to
	// concurrency-1 feeds.
	users := make([]UserResp, concurrency)
	for i := 0; i < concurrency; i++ {
		u, err := registerUser(client, server, fmt.Sprintf("bench_user_%d", i))
		if err != nil {
			panic(fmt.Sprintf("failed to register user %d: %v", i, err))
		}
		users[i] = u
	}
	for i := 1; i < concurrency; i++ {
		if err := postJSON(client, server+"/v1/follow", users[i].Token, FollowReq{TargetUserID: users[0].UserID}); err != nil {
			panic(fmt.Sprintf("follow failed: %v", err))
		}
	}

	fmt.Printf("Registered %d users, running for %ds\n", concurrency, duration)

	var (
		totalRequests int64
		totalErrors   int64
		latMu         sync.Mutex
		latencies     []time.Duration
	)
	deadline := time.Now().Add(time.Duration(duration) * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(i)))
			me := users[i]

			for time.Now().Before(deadline) {
				start := time.Now()
				var err error

				// Mixed workload: mostly reads, some posts and likes.
				switch r := rng.Intn(10); {
				case r < 6:
					_, err = getFeed(client, server, me.Token)
				case r < 9:
					err = postJSON(client, server+"/v1/posts", me.Token, PostReq{Content: fmt.Sprintf("load post %d", rng.Int())})
				default:
					feed, ferr := getFeed(client, server, me.Token)
					if ferr == nil && len(feed) > 0 {
						err = postJSON(client, server+"/v1/likes", me.Token, LikeReq{PostID: feed[rng.Intn(len(feed))]})
					} else {
						err = ferr
					}
				}

				atomic.AddInt64(&totalRequests, 1)
				if err != nil {
					atomic.AddInt64(&totalErrors, 1)
					continue
				}
				lat := time.Since(start)
				latMu.Lock()
				latencies = append(latencies, lat)
				latMu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	report(latencies, totalRequests, totalErrors, duration, trimPercent, csvFile)
}

func registerUser(client *http.Client, server, username string) (UserResp, error) {
	body, _ := json.Marshal(map[string]string{"username": username})
	resp, err := client.Post(server+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		return UserResp{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UserResp{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	var u UserResp
	return u, json.NewDecoder(resp.Body).Decode(&u)
}

func postJSON(client *http.Client, url, token string, payload any) error {
	data, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// getFeed returns the post IDs currently in the user's feed.
func getFeed(client *http.Client, server, token string) ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, server+"/v1/feed", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		Feed []struct {
			ID string `json:"id"`
		} `json:"feed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	ids := make([]string, len(body.Feed))
	for i, p := range body.Feed {
		ids[i] = p.ID
	}
	return ids, nil
}

func report(latencies []time.Duration, total, errors int64, duration int, trimPercent float64, csvFile string) {
	fmt.Printf("Requests: %d, Errors: %d, RPS: %.1f\n", total, errors, float64(total)/float64(duration))
	if len(latencies) == 0 {
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	trim := int(float64(len(latencies)) * trimPercent / 100)
	trimmed := latencies[trim : len(latencies)-trim]
	var sum time.Duration
	for _, l := range trimmed {
		sum += l
	}

	pct := func(p float64) time.Duration {
		return latencies[int(float64(len(latencies)-1)*p)]
	}
	fmt.Printf("Latency trimmed-mean: %v, p50: %v, p95: %v, p99: %v\n",
		sum/time.Duration(len(trimmed)), pct(0.50), pct(0.95), pct(0.99))

	f, err := os.Create(csvFile)
	if err != nil {
		fmt.Printf("failed to create CSV: %v\n", err)
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"latency_us"})
	for _, l := range latencies {
		w.Write([]string{fmt.Sprint(l.Microseconds())})
	}
	fmt.Printf("Latencies saved to %s\n", csvFile)
}
