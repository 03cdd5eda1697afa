package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	numWorkers       = 50
	numCollaborators = 12
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:5000", "host base URL")
	duration := flag.Duration("duration", 10*time.Second, "duration of each phase")
	flag.Parse()

	fmt.Println("=== Plantao Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Target: %s\n\n", numWorkers, *duration, *baseURL)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/api/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Write-heavy (80% PUT, 20% GET) ---")
	runPhase(*duration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.80 {
			return doPut(*baseURL, rng)
		}
		return doGet(*baseURL)
	})

	fmt.Println("\n--- Phase 2: Read-heavy (5% PUT, 95% GET) ---")
	runPhase(*duration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.05 {
			return doPut(*baseURL, rng)
		}
		return doGet(*baseURL)
	})

	fmt.Println("\n--- Consistency check ---")
	if err := checkRecord(*baseURL); err != nil {
		fmt.Println("FAILED:", err)
		os.Exit(1)
	}
	fmt.Println("OK: record is a complete, normalized document")
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// randomRecord builds a month with a random owner per day.
func randomRecord(rng *rand.Rand) map[string]any {
	collaborators := make([]any, numCollaborators)
	for i := range collaborators {
		collaborators[i] = map[string]any{"id": fmt.Sprintf("c%d", i), "name": fmt.Sprintf("Collaborator %d", i)}
	}
	owners := make(map[string]any, 31)
	times := make(map[string]any, 31)
	for day := 1; day <= 31; day++ {
		key := fmt.Sprintf("%d", day)
		owners[key] = fmt.Sprintf("c%d", rng.Intn(numCollaborators))
		times[key] = "08:00-18:00"
	}
	return map[string]any{
		"collaborators": collaborators,
		"schedule": map[string]any{
			"month":       rng.Intn(12) + 1,
			"year":        2026,
			"dayOwnerIds": owners,
			"dayTimes":    times,
		},
	}
}

func doPut(baseURL string, rng *rand.Rand) result {
	data, _ := json.Marshal(randomRecord(rng))
	req, _ := http.NewRequest(http.MethodPut, baseURL+"/api/plantao", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"PUT /api/plantao", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"PUT /api/plantao", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doGet(baseURL string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/plantao")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/plantao", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/plantao", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func checkRecord(baseURL string) error {
	resp, err := httpClient.Get(baseURL + "/api/plantao")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var rec map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if w, ok := rec["warning"]; ok {
		return fmt.Errorf("record served with warning: %v", w)
	}
	for _, key := range []string{"collaborators", "schedule", "supportContact", "updatedAt"} {
		if _, ok := rec[key]; !ok {
			return fmt.Errorf("record is missing %q", key)
		}
	}
	if c, _ := rec["collaborators"].([]any); len(c) != numCollaborators {
		return fmt.Errorf("expected %d collaborators, got %d", numCollaborators, len(c))
	}
	return nil
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
