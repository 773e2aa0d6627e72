package moddb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/schollz/progressbar/v3"
)

const (
	DefaultAPIBase      = "https://mods.vintagestory.at/api/mod"
	DefaultDownloadBase = "https://mods.vintagestory.at/download"
)

var (
	// ErrNotFound means the mod database has no entry for the requested mod.
	ErrNotFound = errors.New("mod not found on the mod database")
	// ErrMalformedResponse means the response body did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed mod database response")
)

// TransportError wraps any failure to talk to the mod database: network
// errors, unexpected HTTP statuses, and undecodable bodies.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the Vintage Story mod database.
type Client struct {
	APIBase      string
	DownloadBase string
	// HTTPClient defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
	// Progress receives a download progress bar when non-nil.
	Progress io.Writer
}

// NewClient returns a client for the public mod database.
func NewClient() *Client {
	return &Client{
		APIBase:      DefaultAPIBase,
		DownloadBase: DefaultDownloadBase,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// ModURL returns the metadata endpoint for modID.
func (c *Client) ModURL(modID string) string {
	return strings.TrimRight(c.APIBase, "/") + "/" + url.PathEscape(modID)
}

// DownloadURL returns the payload endpoint for fileID.
func (c *Client) DownloadURL(fileID int) string {
	return fmt.Sprintf("%s?fileid=%d", c.DownloadBase, fileID)
}

// FetchReleases returns the release list of modID in the order the mod
// database publishes it.
func (c *Client) FetchReleases(ctx context.Context, modID string) (ReleaseList, error) {
	apiURL := c.ModURL(modID)
	logging.Debugf("Verbose: fetching releases mod=%s url=%s\n", modID, apiURL)

	resp, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, &TransportError{Op: "fetching releases", URL: apiURL, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", modID, ErrNotFound)
	default:
		return nil, &TransportError{Op: "fetching releases", URL: apiURL, StatusCode: resp.StatusCode}
	}

	var body modResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &TransportError{Op: "decoding releases", URL: apiURL, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	// The API reports missing mods with HTTP 200 and statuscode "404".
	if body.StatusCode.String() == "404" {
		return nil, fmt.Errorf("%s: %w", modID, ErrNotFound)
	}
	if body.Mod == nil {
		return nil, &TransportError{Op: "decoding releases", URL: apiURL, Err: fmt.Errorf("%w: no mod object", ErrMalformedResponse)}
	}

	logging.Debugf("Verbose: fetched releases mod=%s count=%d\n", modID, len(body.Mod.Releases))
	return body.Mod.Releases, nil
}

// FetchPayload downloads the release archive identified by fileID into memory.
// label is shown next to the progress bar.
func (c *Client) FetchPayload(ctx context.Context, fileID int, label string) ([]byte, error) {
	dlURL := c.DownloadURL(fileID)
	logging.Debugf("Verbose: download start file=%d url=%s\n", fileID, dlURL)

	resp, err := c.get(ctx, dlURL)
	if err != nil {
		return nil, &TransportError{Op: "downloading", URL: dlURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "downloading", URL: dlURL, StatusCode: resp.StatusCode}
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	if c.Progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(c.Progress),
			progressbar.OptionSetDescription("  "+label),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		dst = io.MultiWriter(&buf, bar)
		defer bar.Close()
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return nil, &TransportError{Op: "downloading", URL: dlURL, Err: err}
	}
	logging.Debugf("Verbose: download complete file=%d bytes=%d\n", fileID, buf.Len())
	return buf.Bytes(), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "vsmd")
	return c.httpClient().Do(req)
}
