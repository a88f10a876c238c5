// Package scraping reads the view counter embedded in a page's JSON data block.
package scraping

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"ViewTracker/pkg/logging"
)

// Fetcher performs one GET per Fetch call and extracts a numeric value.
type Fetcher struct {
	url       string
	elementID string
	keyPath   string
	userAgent string
	client    *http.Client
	log       *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client = &http.Client{Timeout: d}
	}
}

// WithElementID sets the id of the script element carrying the payload.
func WithElementID(id string) Option {
	return func(f *Fetcher) {
		f.elementID = id
	}
}

// WithKeyPath sets the dotted path of the value inside the payload.
func WithKeyPath(path string) Option {
	return func(f *Fetcher) {
		f.keyPath = path
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a fetcher for url. Defaults match a Next.js page:
// script#__NEXT_DATA__ and props.pageProps.media.views.
func NewFetcher(url string, opts ...Option) *Fetcher {
	f := &Fetcher{
		url:       url,
		elementID: "__NEXT_DATA__",
		keyPath:   "props.pageProps.media.views",
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       logging.Component("scraping"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the scraped URL.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the page and returns the value at the key path.
// Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, &FetchError{Kind: KindNetwork, URL: f.url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, &FetchError{Kind: KindNetwork, URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &FetchError{Kind: KindNetwork, URL: f.url, Err: fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)}
	}

	payload, err := ExtractScript(resp.Body, f.elementID)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, ErrMissingBlock) {
			kind = KindMissingBlock
		}
		return 0, &FetchError{Kind: kind, URL: f.url, Err: err}
	}

	value, err := ExtractValue(payload, f.keyPath)
	if err != nil {
		kind := KindMissingPath
		if errors.Is(err, ErrNotNumeric) {
			kind = KindNotNumeric
		}
		return 0, &FetchError{Kind: kind, URL: f.url, Err: err}
	}

	f.log.Debug("fetched value",
		zap.String("url", f.url),
		zap.Float64("value", value),
		zap.Int("payloadBytes", len(payload)),
	)
	return value, nil
}

// ExtractScript returns the text of the first <script> element with the
// given id.
func ExtractScript(r io.Reader, id string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	node := findScript(doc, id)
	if node == nil {
		return "", fmt.Errorf("%w: no script#%s", ErrMissingBlock, id)
	}

	var b strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: script#%s is empty", ErrMissingBlock, id)
	}
	return text, nil
}

func findScript(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "script" {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findScript(c, id); found != nil {
			return found
		}
	}
	return nil
}

// ExtractValue reads the number at a dotted path in a JSON document.
// Numeric strings such as "1234" are accepted.
func ExtractValue(payload, path string) (float64, error) {
	if !gjson.Valid(payload) {
		return 0, fmt.Errorf("%w: payload is not valid JSON", ErrMissingPath)
	}

	res := gjson.Get(payload, path)
	if !res.Exists() {
		return 0, fmt.Errorf("%w: %s", ErrMissingPath, path)
	}

	switch res.Type {
	case gjson.Number:
		return res.Float(), nil
	case gjson.String:
		v := gjson.Parse(strings.TrimSpace(res.Str))
		if v.Type == gjson.Number {
			return v.Float(), nil
		}
	}
	return 0, ErrNotNumeric
}
