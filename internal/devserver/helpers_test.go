package devserver

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrEthical07/goBlog/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func fastPassword() password.Config {
	cfg := password.DefaultConfig()
	cfg.Memory = 8 * 1024
	cfg.Time = 1
	return cfg
}

func newRedisTest(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newServerTest(t *testing.T) (*Server, *httptest.Server, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, rdb, closeRedis := newRedisTest(t)

	cfg := DefaultConfig()
	cfg.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.TokenTTL = time.Minute
	cfg.LoginMaxAttempts = 3
	cfg.Password = fastPassword()

	srv, err := New(cfg, rdb, nil)
	if err != nil {
		closeRedis()
		t.Fatalf("New: %v", err)
	}
	if _, err := srv.Users().Add("alice", "a@x.com", "alice-password"); err != nil {
		t.Fatalf("add alice: %v", err)
	}
	if _, err := srv.Users().Add("bob", "b@x.com", "bob-password"); err != nil {
		t.Fatalf("add bob: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	return srv, ts, mr, func() {
		ts.Close()
		closeRedis()
	}
}
