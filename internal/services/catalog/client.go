package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"playbridge/internal/auth"
	"playbridge/internal/playlist"
	"playbridge/internal/services"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Account is the signed-in user as reported by the catalog.
type Account struct {
	Name     string `json:"accountName"`
	Handle   string `json:"channelHandle"`
	PhotoURL string `json:"accountPhotoUrl,omitempty"`
}

// Client reads the user's library from the upstream catalog service,
// authenticating every request with the stored browser headers.
type Client struct {
	baseURL string
	headers map[string]string
	client  HTTPDoer
	timeout time.Duration
}

// NewClient constructs a catalog client. A nil doer uses http.DefaultClient.
func NewClient(baseURL string, headers map[string]string, client HTTPDoer, timeout time.Duration) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		headers: headers,
		client:  client,
		timeout: timeout,
	}
}

// Account returns the signed-in account; it doubles as the authentication check.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.getJSON(ctx, "/account", "account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// LibraryPlaylists lists every playlist in the user's library.
func (c *Client) LibraryPlaylists(ctx context.Context) ([]playlist.Summary, error) {
	var playlists []playlist.Summary
	if err := c.getJSON(ctx, "/library/playlists", "library playlists", &playlists); err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []playlist.Summary{}
	}
	return playlists, nil
}

// Playlist fetches one playlist with all of its tracks.
func (c *Client) Playlist(ctx context.Context, id string) (*playlist.Details, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "playlist", "playlist id is required", nil)
	}
	var details playlist.Details
	if err := c.getJSON(ctx, "/playlists/"+url.PathEscape(id), "playlist "+id, &details); err != nil {
		return nil, err
	}
	if details.Tracks == nil {
		details.Tracks = []playlist.Track{}
	}
	return &details, nil
}

func (c *Client) getJSON(ctx context.Context, path, operation string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "catalog", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	auth.Apply(req, c.headers)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "catalog", operation, "request timed out", err)
		}
		return services.Wrap(services.ErrExternalService, "catalog", operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := fmt.Sprintf("returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrUnauthenticated, "catalog", operation, detail, nil)
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "catalog", operation, detail, nil)
		default:
			return services.Wrap(services.ErrExternalService, "catalog", operation, detail, nil)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternalService, "catalog", operation, "decode response", err)
	}
	return nil
}
