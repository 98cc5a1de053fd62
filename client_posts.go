package goBlog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/MrEthical07/goBlog/internal/flows"
	internalmetrics "github.com/MrEthical07/goBlog/internal/metrics"
)

const postsPath = "/api/blog"

func postPath(id int64) string {
	return postsPath + "/" + strconv.FormatInt(id, 10)
}

// ListPosts fetches every post. Reads need no session.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	if !c.ready() {
		return nil, ErrClientNotReady
	}

	resp, err := c.do(ctx, http.MethodGet, postsPath, "", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newAPIError("list posts", resp.status, resp.field("message", "error"), readErrorKind(resp.status))
	}

	posts := []Post{}
	if err := resp.decode(&posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.metrics.Inc(internalmetrics.PostRead)
	return posts, nil
}

// GetPost fetches one post. A 404 matches ErrPostNotFound.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	if !c.ready() {
		return nil, ErrClientNotReady
	}

	resp, err := c.do(ctx, http.MethodGet, postPath(id), "", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newAPIError("get post", resp.status, resp.field("message", "error"), readErrorKind(resp.status))
	}

	var post Post
	if err := resp.decode(&post); err != nil {
		return nil, err
	}
	c.metrics.Inc(internalmetrics.PostRead)
	return &post, nil
}

// CreatePost submits a new post with the stored bearer token. The returned
// post is nil when the backend answers without a body.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	return c.writePost(ctx, "create", http.MethodPost, postsPath, &in)
}

// UpdatePost replaces the fields of post id.
func (c *Client) UpdatePost(ctx context.Context, id int64, in PostInput) (*Post, error) {
	return c.writePost(ctx, "update", http.MethodPut, postPath(id), &in)
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	_, err := c.writePost(ctx, "delete", http.MethodDelete, postPath(id), nil)
	return err
}

// SavePost creates when id is 0 and updates otherwise, mirroring a form that
// serves both purposes.
func (c *Client) SavePost(ctx context.Context, id int64, in PostInput) (*Post, error) {
	if id == 0 {
		return c.CreatePost(ctx, in)
	}
	return c.UpdatePost(ctx, id, in)
}

// writePost validates input, then reads the token at submit time. Neither a
// missing token nor a 401 clears the session here; only the resolver purges.
func (c *Client) writePost(ctx context.Context, verb, method, path string, in *PostInput) (*Post, error) {
	if !c.ready() {
		return nil, ErrClientNotReady
	}

	var body any
	if in != nil {
		if err := in.Validate(); err != nil {
			c.recordWrite(ctx, verb, err)
			return nil, err
		}
		body = in.Normalize()
	}

	var post *Post
	err := flows.RunPostWrite(ctx, c.flows.PostWrite, func(ctx context.Context, accessToken string) error {
		resp, err := c.do(ctx, method, path, accessToken, body)
		if err != nil {
			return err
		}
		if !resp.ok() {
			msg := resp.field("message")
			if msg == "" {
				msg = "failed to " + verb + " post"
			}
			return newAPIError(verb+" post", resp.status, msg, writeErrorKind(resp.status))
		}
		if in == nil {
			return nil
		}
		var p Post
		if err := resp.decode(&p); err != nil {
			c.logger.WarnContext(ctx, "post written but response was not a post", "error", err)
			return nil
		}
		if p.ID != 0 || p.Title != "" {
			post = &p
		}
		return nil
	})

	c.recordWrite(ctx, verb, err)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (c *Client) recordWrite(ctx context.Context, verb string, err error) {
	meta := map[string]string{"op": verb}
	if err == nil {
		c.metrics.Inc(internalmetrics.PostWriteSuccess)
		c.emitAudit(ctx, auditEventPostWrite, true, User{}, "", meta)
		return
	}
	c.metrics.Inc(internalmetrics.PostWriteFailure)
	c.emitAudit(ctx, auditEventPostWrite, false, User{}, writeAuditCode(err), meta)
}

func writeAuditCode(err error) AuditErrorCode {
	switch {
	case errors.Is(err, ErrPostFieldsRequired):
		return auditErrValidation
	case errors.Is(err, ErrLoginRequired):
		return auditErrLoginRequired
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	case errors.Is(err, ErrPostNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	default:
		return auditErrBackend
	}
}
