// Package platform wraps the third-party social platform API. Every
// call is an opaque HTTP request; a non-2xx response comes back as a
// generic transport error.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Client talks to the LinkedIn automation provider.
type Client struct {
	BaseURL string
	APIKey  string
	MockAPI bool
	client  *http.Client
}

// NewClient creates a new platform client. With mockAPI set, calls
// succeed locally without touching the network.
func NewClient(baseURL, apiKey string, mockAPI bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SendInvitation(ctx context.Context, accountID, leadLinkedInID, message string) error {
	if c.MockAPI {
		return nil
	}
	return c.post(ctx, "/invitations", map[string]string{
		"account_id": accountID,
		"profile_id": leadLinkedInID,
		"message":    message,
	}, nil)
}

func (c *Client) StartConversation(ctx context.Context, accountID, leadLinkedInID, text string) error {
	if c.MockAPI {
		return nil
	}
	return c.post(ctx, "/conversations", map[string]string{
		"account_id": accountID,
		"profile_id": leadLinkedInID,
		"text":       text,
	}, nil)
}

func (c *Client) FetchProfile(ctx context.Context, accountID, leadLinkedInID string) error {
	if c.MockAPI {
		return nil
	}
	return c.get(ctx, fmt.Sprintf("/accounts/%s/profiles/%s", accountID, leadLinkedInID), nil)
}

func (c *Client) FetchRecentPosts(ctx context.Context, accountID, leadLinkedInID string) ([]model.Post, error) {
	if c.MockAPI {
		return []model.Post{{ID: "mock-post-1"}, {ID: "mock-post-2"}}, nil
	}
	var out struct {
		Posts []model.Post `json:"posts"`
	}
	if err := c.get(ctx, fmt.Sprintf("/accounts/%s/profiles/%s/posts", accountID, leadLinkedInID), &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) ReactToPost(ctx context.Context, accountID, postID string) error {
	if c.MockAPI {
		return nil
	}
	return c.post(ctx, fmt.Sprintf("/posts/%s/reactions", postID), map[string]string{
		"account_id": accountID,
		"reaction":   "like",
	}, nil)
}

func (c *Client) CommentOnPost(ctx context.Context, accountID, postID, text string) error {
	if c.MockAPI {
		return nil
	}
	return c.post(ctx, fmt.Sprintf("/posts/%s/comments", postID), map[string]string{
		"account_id": accountID,
		"text":       text,
	}, nil)
}

func (c *Client) FollowOrUnfollow(ctx context.Context, accountID, leadLinkedInID, mode string) error {
	if c.MockAPI {
		return nil
	}
	return c.post(ctx, fmt.Sprintf("/profiles/%s/follow", leadLinkedInID), map[string]string{
		"account_id": accountID,
		"mode":       mode,
	}, nil)
}

func (c *Client) ScrapeProfile(ctx context.Context, accountID, leadLinkedInID string, useSalesNavigator bool) (*model.ScrapedProfile, error) {
	if c.MockAPI {
		return &model.ScrapedProfile{FirstName: "Mock", LastName: "Profile"}, nil
	}
	path := fmt.Sprintf("/accounts/%s/profiles/%s/scrape", accountID, leadLinkedInID)
	if useSalesNavigator {
		path += "?sales_navigator=true"
	}
	var out model.ScrapedProfile
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("platform API returned %d for %s %s", resp.StatusCode, req.Method, req.URL.Path)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ engine.Platform = (*Client)(nil)
