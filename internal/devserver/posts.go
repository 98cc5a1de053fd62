package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrStoreUnavailable = errors.New("post store unavailable")
)

// Post is the stored record. Owner is the username that created it and is
// not part of the public JSON.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Owner     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type storedPost struct {
	Post
	Owner string `json:"owner"`
}

// Posts keeps posts in Redis: one JSON string per post and a sorted set of
// ids scored by creation time.
type Posts struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewPosts(client redis.UniversalClient, prefix string) *Posts {
	if prefix == "" {
		prefix = "goblog:dev"
	}
	return &Posts{redis: client, prefix: prefix, now: time.Now}
}

func (p *Posts) postKey(id int64) string {
	return p.prefix + ":post:" + strconv.FormatInt(id, 10)
}

func (p *Posts) indexKey() string {
	return p.prefix + ":posts"
}

func (p *Posts) seqKey() string {
	return p.prefix + ":post_seq"
}

// List returns posts in creation order.
func (p *Posts) List(ctx context.Context) ([]Post, error) {
	ids, err := p.redis.ZRange(ctx, p.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(ids) == 0 {
		return []Post{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.prefix + ":post:" + id
	}
	values, err := p.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	posts := make([]Post, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		post, err := decodePost(s)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (p *Posts) Get(ctx context.Context, id int64) (Post, error) {
	raw, err := p.redis.Get(ctx, p.postKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return decodePost(raw)
}

// Create assigns an id and timestamps.
func (p *Posts) Create(ctx context.Context, post Post) (Post, error) {
	id, err := p.redis.Incr(ctx, p.seqKey()).Result()
	if err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := p.now().UTC().Truncate(time.Second)
	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now

	raw, err := encodePost(post)
	if err != nil {
		return Post{}, err
	}

	_, err = p.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.postKey(id), raw, 0)
		pipe.ZAdd(ctx, p.indexKey(), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return post, nil
}

// Update replaces title, content and author of an existing post.
func (p *Posts) Update(ctx context.Context, id int64, title, content, author string) (Post, error) {
	post, err := p.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	post.Title, post.Content, post.Author = title, content, author
	post.UpdatedAt = p.now().UTC().Truncate(time.Second)

	raw, err := encodePost(post)
	if err != nil {
		return Post{}, err
	}
	if err := p.redis.Set(ctx, p.postKey(id), raw, 0).Err(); err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return post, nil
}

func (p *Posts) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := p.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, p.postKey(id))
		pipe.ZRem(ctx, p.indexKey(), strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if del.Val() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func encodePost(post Post) (string, error) {
	data, err := json.Marshal(storedPost{Post: post, Owner: post.Owner})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePost(raw string) (Post, error) {
	var sp storedPost
	if err := json.Unmarshal([]byte(raw), &sp); err != nil {
		return Post{}, fmt.Errorf("%w: corrupt post record: %v", ErrStoreUnavailable, err)
	}
	sp.Post.Owner = sp.Owner
	return sp.Post, nil
}
