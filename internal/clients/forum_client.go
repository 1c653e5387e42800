// internal/clients/forum_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"memberhub/internal/forum"
)

// ForumClient talks to the forum endpoints of a memberhub API server
// on behalf of one session.
type ForumClient struct {
	baseURL string
	token   string
}

func NewForumClient(baseURL, token string) *ForumClient {
	return &ForumClient{baseURL: baseURL, token: token}
}

func (c *ForumClient) ListDiscussions(ctx context.Context) ([]forum.Discussion, error) {
	var discussions []forum.Discussion
	if err := c.do(ctx, http.MethodGet, "/forum/discussions", nil, http.StatusOK, &discussions); err != nil {
		return nil, err
	}
	return discussions, nil
}

func (c *ForumClient) CreateDiscussion(ctx context.Context, data forum.NewDiscussion) (*forum.Discussion, error) {
	var discussion forum.Discussion
	if err := c.do(ctx, http.MethodPost, "/forum/discussions", data, http.StatusCreated, &discussion); err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (c *ForumClient) DeleteDiscussion(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/forum/discussions/%s", id), nil, http.StatusNoContent, nil)
}

func (c *ForumClient) ListReplies(ctx context.Context, discussionID uuid.UUID) ([]forum.Reply, error) {
	var replies []forum.Reply
	path := fmt.Sprintf("/forum/discussions/%s/replies", discussionID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func (c *ForumClient) CreateReply(ctx context.Context, discussionID uuid.UUID, data forum.NewReply) (*forum.Reply, error) {
	var reply forum.Reply
	path := fmt.Sprintf("/forum/discussions/%s/replies", discussionID)
	if err := c.do(ctx, http.MethodPost, path, data, http.StatusCreated, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *ForumClient) DeleteReply(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/forum/replies/%s", id), nil, http.StatusNoContent, nil)
}

func (c *ForumClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/forum/categories", nil, http.StatusOK, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *ForumClient) do(ctx context.Context, method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return statusError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
