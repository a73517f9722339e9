package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metrics"
	"github.com/meCeltic/Bookmark-AI/internal/urlutil"
	"github.com/meCeltic/Bookmark-AI/internal/utils"
)

const (
	DefaultFetchTimeout = 5 * time.Second
	DefaultMaxBodyBytes = 2 << 20
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	maxRedirects        = 10
)

// Options tunes a Fetcher. Zero values fall back to the defaults above.
type Options struct {
	Timeout          time.Duration
	MaxBodyBytes     int64
	UserAgent        string
	SummaryMaxLength int

	// Remote strategies run after the local regex chain, in order.
	Remote []SummaryStrategy
}

// Fetcher retrieves a URL and turns it into Metadata. It never fails:
// every problem degrades to default metadata and is only logged.
type Fetcher struct {
	client     *http.Client
	opts       Options
	strategies []SummaryStrategy
	logger     logger.Logger
}

// NewFetcher builds a Fetcher. A nil client gets a fresh one that follows up to 10 redirects.
func NewFetcher(client *http.Client, log logger.Logger, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.SummaryMaxLength <= 0 {
		opts.SummaryMaxLength = DefaultSummaryMaxLength
	}

	strategies := LocalStrategies(opts.SummaryMaxLength, false)
	strategies = append(strategies, opts.Remote...)

	return &Fetcher{
		client:     client,
		opts:       opts,
		strategies: strategies,
		logger:     log,
	}
}

// Fetch returns best-effort metadata for rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Metadata {
	start := time.Now()
	md, outcome := f.fetch(ctx, rawURL)
	metrics.ObserveFetch(outcome, time.Since(start))
	return md
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (Metadata, string) {
	normalized := urlutil.Normalize(rawURL)
	u, err := urlutil.Parse(normalized)
	if err != nil {
		f.logger.Debug("metadata: invalid url", logger.String("url", rawURL), logger.Error(err))
		return InvalidURL(rawURL), metrics.FetchInvalidURL
	}

	host := urlutil.Hostname(u)
	defaults := Defaults(host)

	reqCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		f.logger.Warn("metadata: failed to build request", logger.String("url", normalized), logger.Error(err))
		return defaults, metrics.FetchNetworkError
	}
	setHeaders(req, f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("metadata: fetch failed",
			logger.String("url", normalized),
			logger.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
			logger.Error(err))
		return defaults, metrics.FetchNetworkError
	}
	defer utils.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Info("metadata: non-success status",
			logger.String("url", normalized),
			logger.Int("status", resp.StatusCode))
		return defaults, metrics.FetchHTTPError
	}

	finalURL := resp.Request.URL.String()
	if finalURL != normalized {
		f.logger.Debug("metadata: followed redirects",
			logger.String("url", normalized),
			logger.String("final_url", finalURL))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		md := defaults
		mediaType, _, _ := strings.Cut(contentType, ";")
		md.Title = fmt.Sprintf("%s (%s)", host, strings.TrimSpace(mediaType))
		return md, metrics.FetchNonHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		f.logger.Warn("metadata: body read failed", logger.String("url", finalURL), logger.Error(err))
		return defaults, metrics.FetchNetworkError
	}
	html := string(body)

	md := defaults
	if title, ok := extractTitle(html); ok {
		md.Title = title
	}
	md.Favicon = extractFavicon(html, finalURL)

	page := Page{URL: finalURL, Hostname: hostnameOf(finalURL), HTML: html}
	summary, source, ok := firstSummary(ctx, f.strategies, page)
	if ok {
		md.Summary = summary
	} else {
		md.Summary = DefaultSummary(page.Hostname)
		source = "default"
	}
	metrics.ObserveSummarySource(source)

	return md, metrics.FetchOK
}

func setHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
