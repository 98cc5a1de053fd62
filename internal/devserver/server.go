package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goBlog/internal/rate"
	"github.com/MrEthical07/goBlog/middleware"
	"github.com/MrEthical07/goBlog/password"
	"github.com/MrEthical07/goBlog/token"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxBodyBytes = 1 << 20

// Config configures a [Server].
type Config struct {
	// Secret signs HS256 access tokens. Required.
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string

	RedisPrefix      string
	LoginMaxAttempts int
	LoginWindow      time.Duration

	Password password.Config
}

// DefaultConfig returns development defaults without a secret.
func DefaultConfig() Config {
	pw := password.DefaultConfig()
	return Config{
		TokenTTL:         15 * time.Minute,
		Issuer:           "goblog-devserver",
		RedisPrefix:      "goblog:dev",
		LoginMaxAttempts: 5,
		LoginWindow:      time.Minute,
		Password:         pw,
	}
}

// Server serves the blog API.
type Server struct {
	tokens  *token.Manager
	users   *Users
	posts   *Posts
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New wires a Server onto redisClient. A nil logger discards output.
func New(cfg Config, redisClient redis.UniversalClient, logger *slog.Logger) (*Server, error) {
	if redisClient == nil {
		return nil, errors.New("devserver: redis client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tokens, err := token.NewManager(token.Config{
		TTL:           cfg.TokenTTL,
		SigningMethod: token.MethodHS256,
		PrivateKey:    cfg.Secret,
		Issuer:        cfg.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("devserver: %w", err)
	}

	hasher, err := password.NewHasher(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("devserver: %w", err)
	}
	users, err := NewUsers(hasher)
	if err != nil {
		return nil, fmt.Errorf("devserver: %w", err)
	}

	return &Server{
		tokens: tokens,
		users:  users,
		posts:  NewPosts(redisClient, cfg.RedisPrefix),
		limiter: rate.New(redisClient, rate.Config{
			Prefix:           cfg.RedisPrefix + ":login",
			EnableIPThrottle: true,
			MaxAttempts:      cfg.LoginMaxAttempts,
			Window:           cfg.LoginWindow,
		}),
		logger: logger,
	}, nil
}

func (s *Server) Users() *Users { return s.users }

func (s *Server) Posts() *Posts { return s.posts }

func (s *Server) Tokens() *token.Manager { return s.tokens }

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	guard := middleware.Guard(s.tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.login)
	mux.Handle("GET /api/me", guard(http.HandlerFunc(s.me)))
	mux.HandleFunc("GET /api/blog", s.listPosts)
	mux.HandleFunc("GET /api/blog/{id}", s.getPost)
	mux.Handle("POST /api/blog", guard(http.HandlerFunc(s.createPost)))
	mux.Handle("PUT /api/blog/{id}", guard(http.HandlerFunc(s.updatePost)))
	mux.Handle("DELETE /api/blog/{id}", guard(http.HandlerFunc(s.deletePost)))

	return s.logRequests(mux)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password are required"})
		return
	}

	ctx := r.Context()
	ip := clientIP(r)

	if err := s.limiter.Check(ctx, username, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts. Please try again later."})
			return
		}
		s.logger.ErrorContext(ctx, "login limiter check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Service unavailable"})
		return
	}

	user, err := s.users.Authenticate(username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if rerr := s.limiter.RecordFailure(ctx, username, ip); rerr != nil {
				s.logger.WarnContext(ctx, "login failure not recorded", "error", rerr)
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		s.logger.ErrorContext(ctx, "login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An unexpected error occurred"})
		return
	}

	access, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "token issue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An unexpected error occurred"})
		return
	}
	if err := s.limiter.Reset(ctx, username); err != nil {
		s.logger.WarnContext(ctx, "login limiter reset failed", "error", err)
	}

	s.logger.InfoContext(ctx, "login", "username", user.Username, "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  access,
		"refreshToken": uuid.NewString(),
		"message":      "Login successful!",
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	user, ok := s.users.Lookup(claims.Username)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username": user.Username,
		"email":    user.Email,
		"id":       user.ID,
	})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type postBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (b *postBody) valid() bool {
	b.Title = strings.TrimSpace(b.Title)
	b.Content = strings.TrimSpace(b.Content)
	b.Author = strings.TrimSpace(b.Author)
	return b.Title != "" && b.Content != "" && b.Author != ""
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	var body postBody
	if err := decodeBody(r, &body); err != nil || !body.valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please fill in all fields."})
		return
	}

	post, err := s.posts.Create(r.Context(), Post{
		Title:   body.Title,
		Content: body.Content,
		Author:  body.Author,
		Owner:   claims.Username,
	})
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "post created", "post_id", post.ID, "owner", post.Owner)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, id) {
		return
	}

	var body postBody
	if err := decodeBody(r, &body); err != nil || !body.valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Please fill in all fields."})
		return
	}

	post, err := s.posts.Update(r.Context(), id, body.Title, body.Content, body.Author)
	if err != nil {
		s.storeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, id) {
		return
	}
	if err := s.posts.Delete(r.Context(), id); err != nil {
		s.storeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorize allows writes only by the post's owner.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, id int64) bool {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.storeFailure(w, r, err)
		return false
	}
	if claims == nil || !strings.EqualFold(post.Owner, claims.Username) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "You do not have permission to modify this post."})
		return false
	}
	return true
}

func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrPostNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found."})
		return
	}
	s.logger.ErrorContext(r.Context(), "post store failed", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Service unavailable"})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

// logRequests tags each request with an id and logs its outcome.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		ctx := context.WithValue(r.Context(), requestIDKey{}, rid)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.DebugContext(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", rid,
			"duration", time.Since(start),
		)
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found."})
		return 0, false
	}
	return id, true
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
