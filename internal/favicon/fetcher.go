package favicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// WellKnownPaths are tried, in order, before the page itself is scraped.
var WellKnownPaths = []string{
	"/favicon.ico",
	"/favicon.png",
	"/apple-touch-icon.png",
}

const (
	// maxIconBytes caps a downloaded icon.
	maxIconBytes = 1 << 20
	// maxPageBytes caps how much of a page is scanned for <link> elements.
	maxPageBytes = 2 << 20
)

// Fetcher downloads favicons over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used for per-candidate failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher. Without options it uses http.DefaultClient,
// so requests have no timeout beyond the transport's own.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: http.DefaultClient,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns icon bytes for rawURL. The first candidate that answers with
// a 2xx status and an image/* content type wins. ok is false when every
// candidate failed; errors never escape.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool) {
	page, err := pageURL(rawURL)
	if err != nil {
		f.logger.Debug().Err(err).Str("url", rawURL).Msg("Skipping favicon for unusable URL")
		return nil, false
	}

	for _, path := range WellKnownPaths {
		candidate := &url.URL{Scheme: page.Scheme, Host: page.Host, Path: path}
		if data, ok := f.download(ctx, candidate.String()); ok {
			return data, true
		}
	}

	if data, ok := f.fromMarkup(ctx, page); ok {
		return data, true
	}

	f.logger.Debug().Str("url", rawURL).Msg("No favicon found")
	return nil, false
}

// pageURL parses rawURL, defaulting the scheme to https.
func pageURL(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("no host in %q", rawURL)
	}
	return u, nil
}

func (f *Fetcher) fromMarkup(ctx context.Context, page *url.URL) ([]byte, bool) {
	resp, err := f.get(ctx, page.String())
	if err != nil {
		f.logger.Debug().Err(err).Str("url", page.String()).Msg("Page fetch failed")
		return nil, false
	}
	defer resp.Body.Close()

	markup, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		f.logger.Debug().Err(err).Str("url", page.String()).Msg("Page read failed")
		return nil, false
	}

	href, ok := ExtractIconHref(markup)
	if !ok {
		return nil, false
	}

	icon, err := ResolveHref(page, href)
	if err != nil {
		f.logger.Debug().Err(err).Str("href", href).Msg("Unresolvable icon href")
		return nil, false
	}
	return f.download(ctx, icon.String())
}

// download fetches target and accepts it only if it is a successful image response.
func (f *Fetcher) download(ctx context.Context, target string) ([]byte, bool) {
	resp, err := f.get(ctx, target)
	if err != nil {
		f.logger.Debug().Err(err).Str("candidate", target).Msg("Favicon candidate failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug().Int("status", resp.StatusCode).Str("candidate", target).Msg("Favicon candidate rejected")
		return nil, false
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		f.logger.Debug().Str("content_type", contentType).Str("candidate", target).Msg("Favicon candidate is not an image")
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	return f.client.Do(req)
}
