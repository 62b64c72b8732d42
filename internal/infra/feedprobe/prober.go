// Package feedprobe previews a candidate source before it is added: it fetches the URL,
// discovers the RSS/Atom feed behind it and summarises that feed.
//
// A URL may point straight at a feed, or at an HTML page announcing its feed with
// <link rel="alternate" type="application/rss+xml">. Nothing is registered anywhere.
package feedprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"fact-news/internal/domain/entity"
	"fact-news/internal/resilience/circuitbreaker"
)

var (
	// ErrInvalidURL indicates a URL that cannot be probed.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrPrivateIP indicates a URL resolving to a non-public address.
	ErrPrivateIP = errors.New("URL resolves to a private address")
	// ErrNoFeed indicates that neither the page nor its alternate links yield a feed.
	ErrNoFeed = errors.New("no RSS or Atom feed found")
	// ErrTooManyRedirects indicates a redirect chain longer than Config.MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// feedLinkSelector matches the feed announcements of an HTML page.
const feedLinkSelector = `link[rel~="alternate"][type="application/rss+xml"], ` +
	`link[rel~="alternate"][type="application/atom+xml"], ` +
	`link[rel~="alternate"][type="application/feed+json"]`

// Config configures a Prober.
type Config struct {
	// Timeout bounds one whole probe.
	Timeout time.Duration
	// MaxBodySize bounds each fetched document in bytes.
	MaxBodySize int64
	// DenyPrivateIPs refuses hosts resolving to loopback, private or link-local addresses.
	DenyPrivateIPs bool
	UserAgent      string
	// LatestItems is how many item titles the preview lists.
	LatestItems int
	// MaxRedirects bounds each fetch's redirect chain.
	MaxRedirects int
}

// DefaultConfig returns the production probe settings.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    5 * 1024 * 1024,
		DenyPrivateIPs: true,
		UserAgent:      "FactNewsDashboard/1.0",
		LatestItems:    3,
		MaxRedirects:   5,
	}
}

// statusError is a non-200 response from a probed site.
type statusError struct {
	URL    string
	Status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// Prober discovers and summarises feeds. It is safe for concurrent use.
type Prober struct {
	client   *http.Client
	cfg      Config
	breaker  *circuitbreaker.CircuitBreaker
	logger   *slog.Logger
	lookupIP func(host string) ([]net.IP, error)
}

// New returns a Prober using a copy of client. A nil client gets one bounded by cfg.Timeout.
// Every redirect target is validated like the submitted URL.
func New(client *http.Client, cfg Config, logger *slog.Logger) *Prober {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.LatestItems <= 0 {
		cfg.LatestItems = def.LatestItems
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = def.MaxRedirects
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Prober{
		cfg:      cfg,
		breaker:  circuitbreaker.New(circuitbreaker.FeedProbeConfig(), countsAsSuccess),
		logger:   logger,
		lookupIP: net.LookupIP,
	}
	c := *client
	c.CheckRedirect = p.checkRedirect
	p.client = &c
	return p
}

// checkRedirect caps the redirect chain and refuses targets validateURL rejects.
func (p *Prober) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= p.cfg.MaxRedirects {
		return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
	}
	if _, err := p.validateURL(req.URL.String()); err != nil {
		p.logger.Warn("feed probe redirect refused",
			slog.String("from", via[len(via)-1].URL.String()),
			slog.String("to", req.URL.String()))
		return fmt.Errorf("redirect target validation failed: %w", err)
	}
	return nil
}

// countsAsSuccess treats 4xx answers and refused URLs as successful calls for the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrPrivateIP) || errors.Is(err, ErrTooManyRedirects) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Status < 500
	}
	return false
}

// Probe fetches rawURL and returns a summary of the feed it is or announces.
func (p *Prober) Probe(ctx context.Context, rawURL string) (entity.FeedPreview, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	rawURL = strings.TrimSpace(rawURL)
	pageURL, err := p.validateURL(rawURL)
	if err != nil {
		return entity.FeedPreview{}, err
	}

	body, err := p.fetch(ctx, pageURL.String())
	if err != nil {
		return entity.FeedPreview{}, err
	}

	feedURL := pageURL
	if gofeed.DetectFeedType(bytes.NewReader(body)) == gofeed.FeedTypeUnknown {
		feedURL, err = discoverFeedURL(pageURL, body)
		if err != nil {
			return entity.FeedPreview{}, err
		}
		if _, err := p.validateURL(feedURL.String()); err != nil {
			return entity.FeedPreview{}, err
		}
		p.logger.Debug("feed discovered",
			slog.String("url", rawURL),
			slog.String("feed_url", feedURL.String()))
		if body, err = p.fetch(ctx, feedURL.String()); err != nil {
			return entity.FeedPreview{}, err
		}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return entity.FeedPreview{}, fmt.Errorf("%w: parse %s: %v", ErrNoFeed, feedURL, err)
	}
	return p.summarise(rawURL, feedURL.String(), feed), nil
}

func (p *Prober) summarise(rawURL, feedURL string, feed *gofeed.Feed) entity.FeedPreview {
	preview := entity.FeedPreview{
		URL:         rawURL,
		FeedURL:     feedURL,
		Title:       strings.TrimSpace(feed.Title),
		Description: strings.TrimSpace(feed.Description),
		ItemCount:   len(feed.Items),
	}
	for _, it := range feed.Items {
		if len(preview.LatestItems) == p.cfg.LatestItems {
			break
		}
		if title := strings.TrimSpace(it.Title); title != "" {
			preview.LatestItems = append(preview.LatestItems, title)
		}
	}
	return preview
}

// fetch GETs urlStr through the breaker and returns its size-limited body.
func (p *Prober) fetch(ctx context.Context, urlStr string) ([]byte, error) {
	var body []byte
	err := p.breaker.Run(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", p.cfg.UserAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/html;q=0.9, */*;q=0.8")

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return &statusError{URL: urlStr, Status: resp.StatusCode}
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, p.cfg.MaxBodySize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	})
	if circuitbreaker.IsRejection(err) {
		p.logger.Warn("feed probe circuit breaker open, request rejected", slog.String("url", urlStr))
	}
	return body, err
}

// discoverFeedURL finds the first feed announced by an HTML page, resolved against the page URL.
func discoverFeedURL(pageURL *url.URL, body []byte) (*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var found *url.URL
	doc.Find(feedLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		found = pageURL.ResolveReference(ref)
		return false
	})
	if found == nil {
		return nil, fmt.Errorf("%w at %s", ErrNoFeed, pageURL)
	}
	return found, nil
}
