package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"gearrack/internal/logging"
)

const (
	// DefaultTimeout bounds the whole request, connection included.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects caps redirect following per request.
	DefaultMaxRedirects = 5

	userAgent = "gearrack/0.1"
)

// Fetcher retrieves remote content by URL. Both calls block until the
// response is fully read or the timeout fires; success is false on any
// failure to open or drain the stream.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (string, bool)
	FetchBinary(ctx context.Context, url string) ([]byte, bool)
}

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options tunes the HTTP fetcher. Zero values fall back to package defaults.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	Client       HTTPDoer
}

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	client HTTPDoer
	logger *slog.Logger
}

// NewHTTP constructs the production fetcher.
func NewHTTP(opts Options, logger *slog.Logger) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		maxRedirects := opts.MaxRedirects
		if maxRedirects <= 0 {
			maxRedirects = DefaultMaxRedirects
		}
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	return &HTTPFetcher{
		client: client,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string) (string, bool) {
	data, ok := f.fetch(ctx, url, "application/json")
	if !ok {
		return "", false
	}
	return string(data), true
}

func (f *HTTPFetcher) FetchBinary(ctx context.Context, url string) ([]byte, bool) {
	return f.fetch(ctx, url, "application/octet-stream")
}

func (f *HTTPFetcher) fetch(ctx context.Context, url, accept string) ([]byte, bool) {
	if url == "" {
		return nil, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Debug("build request failed",
			logging.String(logging.FieldURL, url), logging.Error(err))
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed",
			logging.String(logging.FieldURL, url), logging.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug("fetch returned non-success status",
			logging.String(logging.FieldURL, url), logging.Int("status", resp.StatusCode))
		return nil, false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Debug("read body failed",
			logging.String(logging.FieldURL, url), logging.Error(err))
		return nil, false
	}
	return data, true
}

// Null is the inert fetcher: every request fails and logs the attempt.
type Null struct {
	logger *slog.Logger
}

// NewNull constructs the inert fetcher.
func NewNull(logger *slog.Logger) *Null {
	return &Null{logger: logging.NewComponentLogger(logger, "fetch.null")}
}

func (n *Null) FetchJSON(ctx context.Context, url string) (string, bool) {
	n.logger.Debug("json fetch on null fetcher", logging.String(logging.FieldURL, url))
	return "", false
}

func (n *Null) FetchBinary(ctx context.Context, url string) ([]byte, bool) {
	n.logger.Debug("binary fetch on null fetcher", logging.String(logging.FieldURL, url))
	return nil, false
}
