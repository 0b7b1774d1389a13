package photos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client talks to the EmberFit photo server over HTTP. It implements Store.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the photo server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Save POSTs the photo to the server. Retries up to 3 times with
// exponential backoff on failure.
func (c *Client) Save(ctx context.Context, p Photo) (uuid.UUID, error) {
	q := url.Values{}
	q.Set("owner", p.Owner)
	q.Set("day", strconv.Itoa(p.Day))
	if p.IsInitial {
		q.Set("initial", "true")
	}
	endpoint := c.serverURL + "/api/v1/photos?" + q.Encode()

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return uuid.Nil, ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(p.JPEG))
		if err != nil {
			return uuid.Nil, fmt.Errorf("building photo request: %w", err)
		}
		req.Header.Set("Content-Type", "image/jpeg")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var out struct {
				ID uuid.UUID `json:"id"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return uuid.Nil, fmt.Errorf("decoding photo response: %w", err)
			}
			return out.ID, nil
		}
		lastErr = fmt.Errorf("photo upload failed (status %d): %s", resp.StatusCode, body)
	}

	return uuid.Nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

// Fetch retrieves a photo's JPEG bytes by record ID. Only the ID and image
// are populated; metadata comes from the list endpoints.
func (c *Client) Fetch(ctx context.Context, id uuid.UUID) (Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.serverURL+"/api/v1/photos/"+id.String(), nil)
	if err != nil {
		return Photo{}, fmt.Errorf("building photo request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Photo{}, fmt.Errorf("fetching photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Photo{}, fmt.Errorf("photo fetch failed (status %d): %s", resp.StatusCode, body)
	}

	jpeg, err := io.ReadAll(resp.Body)
	if err != nil {
		return Photo{}, fmt.Errorf("reading photo body: %w", err)
	}
	return Photo{ID: id, JPEG: jpeg}, nil
}

// ByDay lists photo metadata for one program day, oldest first.
func (c *Client) ByDay(ctx context.Context, owner string, day int) ([]Photo, error) {
	q := url.Values{}
	q.Set("owner", owner)
	q.Set("day", strconv.Itoa(day))
	return c.list(ctx, q)
}

// Initial returns metadata for the owner's most recent initial photo, or
// ok=false when none exists.
func (c *Client) Initial(ctx context.Context, owner string) (Photo, bool, error) {
	q := url.Values{}
	q.Set("owner", owner)
	q.Set("initial", "true")
	metas, err := c.list(ctx, q)
	if err != nil {
		return Photo{}, false, err
	}
	if len(metas) == 0 {
		return Photo{}, false, nil
	}
	return metas[0], true, nil
}

func (c *Client) list(ctx context.Context, q url.Values) ([]Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.serverURL+"/api/v1/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building list request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("photo list failed (status %d): %s", resp.StatusCode, body)
	}

	var metas []Photo
	if err := json.NewDecoder(resp.Body).Decode(&metas); err != nil {
		return nil, fmt.Errorf("decoding photo list: %w", err)
	}
	return metas, nil
}
