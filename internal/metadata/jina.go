package metadata

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/utils"
)

// DefaultJinaEndpoint is prefixed to the encoded page URL.
const DefaultJinaEndpoint = "https://r.jina.ai/http://"

// JinaSummarizer asks a reader service (r.jina.ai by default) for page text.
// Every failure is swallowed: the caller keeps its previous summary.
type JinaSummarizer struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
	maxBytes int64
	logger   logger.Logger
}

// NewJinaSummarizer builds the remote strategy. Zero values fall back to defaults.
func NewJinaSummarizer(client *http.Client, endpoint string, timeout time.Duration, maxBytes int64, log logger.Logger) *JinaSummarizer {
	if client == nil {
		client = &http.Client{}
	}
	if endpoint == "" {
		endpoint = DefaultJinaEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return &JinaSummarizer{
		client:   client,
		endpoint: endpoint,
		timeout:  timeout,
		maxBytes: maxBytes,
		logger:   log,
	}
}

func (j *JinaSummarizer) Name() string { return "jina" }

func (j *JinaSummarizer) Summarize(ctx context.Context, page Page) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	target := j.endpoint + EncodeURIComponent(page.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		j.logger.Debug("jina request build failed", logger.String("url", page.URL), logger.Error(err))
		return "", false
	}

	resp, err := j.client.Do(req)
	if err != nil {
		j.logger.Debug("jina request failed", logger.String("url", page.URL), logger.Error(err))
		return "", false
	}
	defer utils.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		j.logger.Debug("jina returned non-success status",
			logger.String("url", page.URL),
			logger.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, j.maxBytes))
	if err != nil {
		j.logger.Debug("jina body read failed", logger.String("url", page.URL), logger.Error(err))
		return "", false
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		j.logger.Debug("jina returned empty summary", logger.String("url", page.URL))
		return "", false
	}
	return text, true
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does.
func EncodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
