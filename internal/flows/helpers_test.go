package flows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goBlog/session"
	"github.com/MrEthical07/goBlog/token"
)

var errBoom = errors.New("boom")

type recordingStore struct {
	*session.MemoryStore

	mu      sync.Mutex
	removed []string
	sets    int
	getErr  error
	rmErr   error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: session.NewMemoryStore()}
}

func (s *recordingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *recordingStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	s.removed = append(s.removed, key)
	s.mu.Unlock()
	if s.rmErr != nil {
		return s.rmErr
	}
	return s.MemoryStore.Remove(ctx, key)
}

// count reports how many session keys are present.
func (s *recordingStore) count(t *testing.T) int {
	t.Helper()
	n := 0
	for _, key := range session.Keys() {
		_, ok, err := s.MemoryStore.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("count %s: %v", key, err)
		}
		if ok {
			n++
		}
	}
	return n
}

func (s *recordingStore) seed(t *testing.T, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	if access != "" {
		if err := s.MemoryStore.Set(ctx, session.AccessTokenKey, access); err != nil {
			t.Fatalf("seed access: %v", err)
		}
	}
	if refresh != "" {
		if err := s.MemoryStore.Set(ctx, session.RefreshTokenKey, refresh); err != nil {
			t.Fatalf("seed refresh: %v", err)
		}
	}
}

func mintToken(t *testing.T, id int64, username string, exp time.Time) string {
	t.Helper()
	m, err := token.NewManager(token.Config{
		TTL:           time.Hour,
		SigningMethod: token.MethodHS256,
		PrivateKey:    []byte("flows-test-secret-flows-test-secret"),
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	tok, err := m.IssueWithExpiry(id, username, username+"@example.com", exp)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

type profileFetcher struct {
	mu      sync.Mutex
	calls   int
	tokens  []string
	profile Profile
	err     error
}

func (f *profileFetcher) fetch(_ context.Context, accessToken string) (Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tokens = append(f.tokens, accessToken)
	if f.err != nil {
		return Profile{}, f.err
	}
	return f.profile, nil
}
