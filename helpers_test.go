package goBlog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goBlog/session"
	"github.com/MrEthical07/goBlog/token"
)

const testSecret = "goblog-test-secret-goblog-test-secret"

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Config{
		TTL:           time.Hour,
		SigningMethod: token.MethodHS256,
		PrivateKey:    []byte(testSecret),
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

func mintTestToken(t *testing.T, user User, exp time.Time) string {
	t.Helper()
	tok, err := newTestTokens(t).IssueWithExpiry(user.ID, user.Username, user.Email, exp)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

// fakeBackend is an in-process blog API. Zero status fields mean "behave
// normally".
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	requests    []recordedRequest
	profile     User
	meStatus    int
	loginStatus int
	loginBody   string
	writeStatus int
	writeBody   string
	posts       map[int64]Post
	nextID      int64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:       t,
		profile: User{Username: "alice", Email: "a@x.com", ID: 7},
		posts:   map[int64]Post{},
		nextID:  1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", b.handleLogin)
	mux.HandleFunc("GET /api/me", b.handleMe)
	mux.HandleFunc("GET /api/blog", b.handleList)
	mux.HandleFunc("GET /api/blog/{id}", b.handleGet)
	mux.HandleFunc("POST /api/blog", b.handleWrite)
	mux.HandleFunc("PUT /api/blog/{id}", b.handleWrite)
	mux.HandleFunc("DELETE /api/blog/{id}", b.handleWrite)

	b.srv = httptest.NewServer(b.record(mux))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string {
	return b.srv.URL
}

func (b *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.requests = append(b.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(HeaderRequestID),
			Body:          string(body),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *fakeBackend) count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status, raw := b.loginStatus, b.loginBody
	b.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(raw))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	if req.Username != "alice" || req.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  mintTestToken(b.t, b.profile, time.Now().Add(time.Hour)),
		"refreshToken": "refresh-1",
		"message":      "Welcome back!",
	})
}

func (b *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status, profile := b.meStatus, b.profile
	b.mu.Unlock()
	if status != 0 {
		writeJSON(w, status, map[string]string{"error": "nope"})
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (b *fakeBackend) handleList(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	posts := make([]Post, 0, len(b.posts))
	for id := int64(1); id < b.nextID; id++ {
		if p, ok := b.posts[id]; ok {
			posts = append(posts, p)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, posts)
}

func (b *fakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	p, ok := b.posts[id]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *fakeBackend) handleWrite(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeStatus != 0 {
		w.WriteHeader(b.writeStatus)
		_, _ = w.Write([]byte(b.writeBody))
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	if r.Method == http.MethodDelete {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		delete(b.posts, id)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var in PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	if r.Method == http.MethodPost {
		p := Post{ID: b.nextID, Title: in.Title, Content: in.Content, Author: in.Author, CreatedAt: now, UpdatedAt: now}
		b.posts[p.ID] = p
		b.nextID++
		writeJSON(w, http.StatusCreated, p)
		return
	}

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	p, ok := b.posts[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	p.Title, p.Content, p.Author, p.UpdatedAt = in.Title, in.Content, in.Author, now
	b.posts[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (b *fakeBackend) seedPost(p Post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		p.ID = b.nextID
	}
	if p.ID >= b.nextID {
		b.nextID = p.ID + 1
	}
	b.posts[p.ID] = p
}

func newClientTest(t *testing.T, backend *fakeBackend, configure ...func(*Builder)) (*Client, *session.MemoryStore, func()) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.API.BaseURL = backend.URL()
	cfg.Session.Backend = SessionBackendMemory

	store := session.NewMemoryStore()
	b := New().WithConfig(cfg).WithStore(store)
	for _, fn := range configure {
		fn(b)
	}

	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return c, store, func() { _ = c.Close() }
}

func seedToken(t *testing.T, store session.Store, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	if err := store.Set(ctx, session.AccessTokenKey, access); err != nil {
		t.Fatalf("seed access: %v", err)
	}
	if refresh != "" {
		if err := store.Set(ctx, session.RefreshTokenKey, refresh); err != nil {
			t.Fatalf("seed refresh: %v", err)
		}
	}
}

func storedToken(t *testing.T, store session.Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("store get %s: %v", key, err)
	}
	return v, ok
}

// storedCount reports how many session keys are present in store.
func storedCount(t *testing.T, store session.Store) int {
	t.Helper()
	n := 0
	for _, key := range session.Keys() {
		if _, ok := storedToken(t, store, key); ok {
			n++
		}
	}
	return n
}
