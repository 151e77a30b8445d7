// Package linkedin implements the SocialNetwork port against the LinkedIn
// OAuth, asset, and UGC post APIs.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/socialpilot/socialpilot/internal/domain/port/driven"
)

const (
	defaultAPIBaseURL  = "https://api.linkedin.com"
	defaultAuthBaseURL = "https://www.linkedin.com"

	// Binary transfers get a longer deadline than the JSON calls.
	requestTimeout  = 30 * time.Second
	transferTimeout = 5 * time.Minute
)

// Compile-time interface satisfaction check.
var _ driven.SocialNetwork = (*Client)(nil)

// Client implements the driven.SocialNetwork port.
type Client struct {
	apiBase      string
	authBase     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	uploadClient *http.Client
}

// NewClient creates a LinkedIn API client with bounded per-call timeouts.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		apiBase:      defaultAPIBaseURL,
		authBase:     defaultAuthBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: requestTimeout},
		uploadClient: &http.Client{Timeout: transferTimeout},
	}
}

// NewClientWithBaseURLs creates a Client with custom base URLs and http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithBaseURLs(httpClient *http.Client, apiBase, authBase, clientID, clientSecret string) *Client {
	return &Client{
		apiBase:      strings.TrimSuffix(apiBase, "/"),
		authBase:     strings.TrimSuffix(authBase, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		uploadClient: httpClient,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeToken exchanges a one-time authorization code for a bearer token
// via the form-encoded OAuth token endpoint.
func (c *Client) ExchangeToken(ctx context.Context, code, redirectURI string) (*driven.TokenGrant, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBase+"/oauth/v2/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tokenResponse
	if err := c.do(req, c.httpClient, &resp); err != nil {
		return nil, fmt.Errorf("exchange token: %w", err)
	}

	return &driven.TokenGrant{AccessToken: resp.AccessToken, ExpiresIn: resp.ExpiresIn}, nil
}

type userinfoResponse struct {
	Sub string `json:"sub"`
}

// FetchMemberID resolves the member id behind the bearer token via the
// userinfo endpoint.
func (c *Client) FetchMemberID(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v2/userinfo", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var resp userinfoResponse
	if err := c.do(req, c.httpClient, &resp); err != nil {
		return "", fmt.Errorf("fetch member id: %w", err)
	}
	return resp.Sub, nil
}

// postJSON sends an authenticated JSON POST and decodes the response into result.
func (c *Client) postJSON(ctx context.Context, token, apiURL string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, c.httpClient, result)
}

// getJSON sends an authenticated GET and decodes the response into result.
func (c *Client) getJSON(ctx context.Context, token, apiURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, c.httpClient, result)
}

// do executes the request, maps non-2xx responses to *driven.RemoteError, and decodes
// the body into result when non-nil.
func (c *Client) do(req *http.Request, client *http.Client, result any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &driven.RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
