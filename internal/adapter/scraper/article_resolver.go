package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxBodyBytes     = 5 << 20
	// readability output at or below this many characters is not trusted
	minReadableChars = 100
	minCleanChars    = 20
)

var (
	ErrInvalidURL         = errors.New("invalid URL")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrNoContent          = errors.New("no article content found")
)

var (
	noiseSelector = cascadia.MustCompile("script, style, nav, header, footer, aside")

	contentSelectors = []cascadia.Selector{
		cascadia.MustCompile("article"),
		cascadia.MustCompile(`[role="main"]`),
		cascadia.MustCompile(".content"),
		cascadia.MustCompile(".article-content"),
		cascadia.MustCompile(".post-content"),
		cascadia.MustCompile(".entry-content"),
		cascadia.MustCompile("main"),
		cascadia.MustCompile(".main-content"),
		cascadia.MustCompile("body"),
	}

	socialArtifacts = regexp.MustCompile(`(?i)\b(?:share|tweet|like|comment|follow|subscribe)\b`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// ArticleResolver fetches a news page and extracts its main text
type ArticleResolver struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Option configures an ArticleResolver
type Option func(*ArticleResolver)

// WithTimeout sets the fetch timeout
func WithTimeout(d time.Duration) Option {
	return func(r *ArticleResolver) {
		if d > 0 {
			r.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every fetch
func WithUserAgent(ua string) Option {
	return func(r *ArticleResolver) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *ArticleResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewArticleResolver creates a resolver
func NewArticleResolver(opts ...Option) *ArticleResolver {
	r := &ArticleResolver{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements service.SourceResolver
func (r *ArticleResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, pageURL.Scheme)
	}

	body, err := r.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		r.logger.Warn("readability extraction failed", zap.String("url", pageURL.String()), zap.Error(err))
	} else if text := collapse(article.TextContent); utf8.RuneCountInString(text) > minReadableChars {
		if cleaned := cleanText(text); cleaned != "" {
			r.logger.Debug("extracted article with readability",
				zap.String("url", pageURL.String()),
				zap.Int("chars", utf8.RuneCountInString(cleaned)))
			return cleaned, nil
		}
	}

	text, err := manualExtract(body)
	if err != nil {
		return "", err
	}
	cleaned := cleanText(text)
	if cleaned == "" {
		return "", ErrNoContent
	}
	return cleaned, nil
}

func (r *ArticleResolver) fetch(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/html" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContent, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// manualExtract drops page chrome and returns the text of the first
// matching content container
func manualExtract(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, n := range noiseSelector.MatchAll(doc) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	for _, sel := range contentSelectors {
		if n := sel.MatchFirst(doc); n != nil {
			return nodeText(n), nil
		}
	}
	return "", ErrNoContent
}

// nodeText joins the trimmed text nodes under n with single spaces
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// cleanText removes social widget labels and rejects fragments too short to
// be an article
func cleanText(s string) string {
	s = collapse(socialArtifacts.ReplaceAllString(collapse(s), ""))
	if utf8.RuneCountInString(s) <= minCleanChars {
		return ""
	}
	return s
}
