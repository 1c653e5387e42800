// internal/clients/content_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"memberhub/internal/content"
)

// ContentClient talks to the content catalog endpoints of a memberhub
// API server.
type ContentClient struct {
	baseURL string
	token   string
}

func NewContentClient(baseURL, token string) *ContentClient {
	return &ContentClient{baseURL: baseURL, token: token}
}

// List fetches catalog items matching the filter; a zero filter
// returns everything.
func (c *ContentClient) List(ctx context.Context, filter content.Filter) ([]content.Item, error) {
	params := url.Values{}
	if filter.Query != "" {
		params.Set("query", filter.Query)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Tier != "" {
		params.Set("tier", filter.Tier)
	}

	path := "/content"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var items []content.Item
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one item. Premium items require a premium session.
func (c *ContentClient) Get(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	var item content.Item
	if err := c.get(ctx, fmt.Sprintf("/content/%s", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Categories fetches the distinct category values in the catalog.
func (c *ContentClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/content/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *ContentClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
