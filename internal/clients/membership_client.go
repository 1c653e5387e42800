// internal/clients/membership_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"memberhub/internal/membership"
)

// MembershipClient talks to the membership endpoints of a memberhub
// API server. A client carries at most one session token, mirroring a
// single signed-in visitor.
type MembershipClient struct {
	baseURL string
	token   string
}

func NewMembershipClient(baseURL string) *MembershipClient {
	return &MembershipClient{baseURL: baseURL}
}

// Token returns the session token captured at signup.
func (c *MembershipClient) Token() string {
	return c.token
}

// Signup creates a free member and stores its session token on the
// client.
func (c *MembershipClient) Signup(ctx context.Context, email string) (*membership.Member, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/signup", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var out struct {
		Member *membership.Member `json:"member"`
		Token  string             `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	c.token = out.Token
	return out.Member, nil
}

// CurrentMember resolves the client's session.
func (c *MembershipClient) CurrentMember(ctx context.Context) (*membership.Member, error) {
	return c.memberRequest(ctx, http.MethodGet, "/me")
}

// GetMember fetches a member by id.
func (c *MembershipClient) GetMember(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	return c.memberRequest(ctx, http.MethodGet, fmt.Sprintf("/members/%s", id))
}

// Upgrade moves a member to the premium tier.
func (c *MembershipClient) Upgrade(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	return c.memberRequest(ctx, http.MethodPost, fmt.Sprintf("/members/%s/upgrade", id))
}

// Cancel moves a member back to the free tier.
func (c *MembershipClient) Cancel(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	return c.memberRequest(ctx, http.MethodPost, fmt.Sprintf("/members/%s/cancel", id))
}

// Logout ends the client's session.
func (c *MembershipClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	c.token = ""
	return nil
}

func (c *MembershipClient) memberRequest(ctx context.Context, method, path string) (*membership.Member, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var member membership.Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *MembershipClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
}

// APIError carries a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
}
