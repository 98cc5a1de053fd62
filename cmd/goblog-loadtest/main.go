// Command goblog-loadtest measures client throughput for session resolution
// and post listing against a development server started in-process.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/devserver"
	"github.com/MrEthical07/goBlog/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		posts       = flag.Int("posts", 200, "number of posts to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (resolve + list)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "goblog:loadtest", "redis key prefix")
	)
	flag.Parse()

	if *posts < 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0, posts must be >= 0")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := devserver.DefaultConfig()
	cfg.Secret = []byte("loadtest-secret-loadtest-secret!")
	cfg.TokenTTL = time.Hour
	cfg.RedisPrefix = *prefix
	srv, err := devserver.New(cfg, client, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
	if _, err := srv.Users().Add("load", "load@example.com", "load-password"); err != nil {
		fmt.Fprintf(os.Stderr, "seed user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d posts...\n", *posts)
	startSeed := time.Now()
	for i := 0; i < *posts; i++ {
		_, err := srv.Posts().Create(ctx, devserver.Post{
			Title:   fmt.Sprintf("post %d", i),
			Content: "load test body",
			Author:  "Load",
			Owner:   "load",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	blogCfg := goBlog.DefaultConfig()
	blogCfg.API.BaseURL = ts.URL
	blogCfg.Session.Backend = goBlog.SessionBackendMemory
	blog, err := goBlog.New().WithConfig(blogCfg).WithStore(session.NewMemoryStore()).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}
	defer blog.Close()

	if _, err := blog.Login(ctx, "load", "load-password"); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	resolveStats := runPhase(ctx, *ops, *concurrency, func(ctx context.Context) error {
		res := blog.ResolveSessionWithResult(ctx)
		if !res.State.IsAuthenticated() {
			return fmt.Errorf("resolve: %s", res.Outcome)
		}
		return nil
	})
	listStats := runPhase(ctx, *ops, *concurrency, func(ctx context.Context) error {
		_, err := blog.ListPosts(ctx)
		return err
	})

	fmt.Println("---- results ----")
	resolveStats.print("resolve")
	listStats.print("list")

	snap := blog.MetricsSnapshot()
	fmt.Printf("resolve latency buckets: %v\n", snap.Histograms[goBlog.MetricResolveLatency])
}

// runPhase spreads ops calls over workers. Each worker records its own
// samples; they are merged once every worker has returned.
func runPhase(ctx context.Context, ops, workers int, op func(context.Context) error) phaseStats {
	var (
		next     atomic.Int64
		failures atomic.Int64
		perWork  = make([][]time.Duration, workers)
	)

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := range workers {
		g.Go(func() error {
			samples := make([]time.Duration, 0, ops/workers+1)
			for int(next.Add(1)) <= ops {
				if gctx.Err() != nil {
					break
				}
				t0 := time.Now()
				if err := op(gctx); err != nil {
					failures.Add(1)
				}
				samples = append(samples, time.Since(t0))
			}
			perWork[w] = samples
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	var all []time.Duration
	for _, s := range perWork {
		all = append(all, s...)
	}
	slices.Sort(all)

	return phaseStats{elapsed: elapsed, samples: all, failures: failures.Load()}
}

type phaseStats struct {
	elapsed  time.Duration
	samples  []time.Duration
	failures int64
}

// quantile expects sorted samples.
func (s phaseStats) quantile(q float64) time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	idx := int(q * float64(len(s.samples)-1))
	return s.samples[idx]
}

func (s phaseStats) rate() float64 {
	if s.elapsed <= 0 {
		return 0
	}
	return float64(len(s.samples)) / s.elapsed.Seconds()
}

func (s phaseStats) print(name string) {
	fmt.Printf("%-8s ops=%d failures=%d elapsed=%s ops/sec=%.0f p50=%s p95=%s p99=%s max=%s\n",
		name,
		len(s.samples),
		s.failures,
		s.elapsed.Round(time.Millisecond),
		s.rate(),
		s.quantile(0.50).Round(time.Microsecond),
		s.quantile(0.95).Round(time.Microsecond),
		s.quantile(0.99).Round(time.Microsecond),
		s.quantile(1).Round(time.Microsecond),
	)
}
