// Command goblog-devserver runs the blog API locally.
//
// Posts are kept in Redis. Without -redis-addr or REDIS_ADDR an embedded
// miniredis is started, so nothing external is required. Demo accounts:
//
//	alice / alice-password
//	bob   / bob-password
//
// Run:
//
//	go run ./cmd/goblog-devserver -addr :8000
//
// Then point the CLI at it:
//
//	goblog --server http://localhost:8000 login -u alice
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrEthical07/goBlog/internal/devserver"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		addr      = flag.String("addr", ":8000", "listen address")
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix    = flag.String("prefix", "goblog:dev", "redis key prefix")
		ttl       = flag.Duration("token-ttl", 15*time.Minute, "access token lifetime")
		secret    = flag.String("secret", "", "HS256 signing secret; if empty, GOBLOG_DEV_SECRET env or a random one is used")
		debug     = flag.Bool("debug", false, "log every request")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *addr, *redisAddr, *prefix, *secret, *ttl); err != nil {
		logger.Error("devserver stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, redisAddr, prefix, secret string, ttl time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start miniredis: %w", err)
		}
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		logger.Info("using miniredis", "addr", mr.Addr())
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{redisAddr}})
		cleanup = func() { _ = client.Close() }
		logger.Info("using redis", "addr", redisAddr)
	}
	defer cleanup()

	key, err := signingKey(secret)
	if err != nil {
		return err
	}

	cfg := devserver.DefaultConfig()
	cfg.Secret = key
	cfg.TokenTTL = ttl
	cfg.RedisPrefix = prefix

	srv, err := devserver.New(cfg, client, logger)
	if err != nil {
		return err
	}
	if err := seed(ctx, srv); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func signingKey(secret string) ([]byte, error) {
	if secret == "" {
		secret = os.Getenv("GOBLOG_DEV_SECRET")
	}
	if secret != "" {
		return []byte(secret), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	return key, nil
}

func seed(ctx context.Context, srv *devserver.Server) error {
	accounts := []struct{ username, email, password string }{
		{"alice", "alice@example.com", "alice-password"},
		{"bob", "bob@example.com", "bob-password"},
	}
	for _, a := range accounts {
		if _, err := srv.Users().Add(a.username, a.email, a.password); err != nil {
			return fmt.Errorf("seed user %s: %w", a.username, err)
		}
	}

	existing, err := srv.Posts().List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = srv.Posts().Create(ctx, devserver.Post{
		Title:   "Welcome",
		Content: "This post was seeded by the development server.",
		Author:  "Alice",
		Owner:   "alice",
	})
	return err
}
