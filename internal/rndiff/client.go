// Package rndiff downloads React Native version-to-version diffs and template assets.
package rndiff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/valen-cli/valen/internal/messages"
)

// ErrFetch wraps every network or status failure from the remote sources.
var ErrFetch = errors.New(messages.RndiffFetchFailed)

// DefaultRegistryURL serves the latest published react-native release.
const DefaultRegistryURL = "https://registry.npmjs.org/react-native/latest"

const fetchRetryCount = 1

// Client fetches diffs and assets over HTTP.
type Client struct {
	HTTP        *http.Client
	DiffURL     string
	AssetURL    string
	RegistryURL string
	UserAgent   string
	retryDelay  time.Duration
}

// New returns a Client for the given URL templates with a per-request timeout.
func New(diffURL string, assetURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: timeout},
		DiffURL:     diffURL,
		AssetURL:    assetURL,
		RegistryURL: DefaultRegistryURL,
		UserAgent:   "valen",
		retryDelay:  250 * time.Millisecond,
	}
}

// ExpandURL substitutes {key} placeholders in template.
func ExpandURL(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// DiffLocation returns the URL of the from..to diff.
func (c *Client) DiffLocation(from string, to string) string {
	return ExpandURL(c.DiffURL, map[string]string{"from": from, "to": to})
}

// AssetLocation returns the URL of the gradle wrapper jar for version.
func (c *Client) AssetLocation(version string) string {
	return ExpandURL(c.AssetURL, map[string]string{"version": version})
}

// FetchDiff downloads the unified diff between two versions.
func (c *Client) FetchDiff(ctx context.Context, from string, to string) (string, error) {
	body, err := c.get(ctx, c.DiffLocation(from, to))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchAsset downloads the gradle wrapper jar published for version.
func (c *Client) FetchAsset(ctx context.Context, version string) ([]byte, error) {
	return c.get(ctx, c.AssetLocation(version))
}

type registryResponse struct {
	Version string `json:"version"`
}

// LatestVersion returns the newest published react-native version.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.RegistryURL)
	if err != nil {
		return "", err
	}
	var payload registryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf(messages.RndiffDecodeRegistryFmt, err)
	}
	if strings.TrimSpace(payload.Version) == "" {
		return "", fmt.Errorf(messages.RndiffRegistryMissingVersion)
	}
	return payload.Version, nil
}

// get performs a GET, retrying once on network errors and 5xx responses.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.RndiffCreateRequestFmt, url, err)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := client.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				c.sleep()
				continue
			}
			return nil, fmt.Errorf("%w: "+messages.RndiffRequestFailedFmt, ErrFetch, url, err)
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				c.sleep()
				continue
			}
			return nil, fmt.Errorf("%w: "+messages.RndiffStatusFmt, ErrFetch, url, statusText)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: "+messages.RndiffReadBodyFmt, ErrFetch, url, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf("%w: "+messages.RndiffRetriesExhaustedFmt, ErrFetch, url)
}

func (c *Client) sleep() {
	if c.retryDelay > 0 {
		time.Sleep(c.retryDelay)
	}
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= fetchRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
