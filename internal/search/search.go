// Package search answers free-form questions by web search. It first
// tries to scrape a short text answer; when that fails it opens the
// query in the system browser so the user still gets a result.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/novassist/nova/internal/logger"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"
	browserURL     = "https://www.google.com/search?q="

	// maxSpokenAnswer bounds how much scraped text gets spoken.
	maxSpokenAnswer = 280
)

// queryPrefixes mark text as a search request. Ordered longest first
// so "search for" is stripped before "search".
var queryPrefixes = []string{
	"search the web for",
	"search for",
	"search",
	"google",
	"look up",
	"find out",
	"who is",
	"who was",
	"what is",
	"what are",
	"what's",
	"tell me about",
	"how do i",
	"how to",
}

// Option configures the Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client. Tests point it at a local
// server.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.http = c }
}

// WithEndpoint overrides the scrape endpoint.
func WithEndpoint(u string) Option {
	return func(p *Provider) { p.endpoint = u }
}

// WithOpener replaces the browser-open function.
func WithOpener(open func(url string) error) Option {
	return func(p *Provider) { p.open = open }
}

// Provider scrapes short answers and falls back to the browser.
type Provider struct {
	http     *http.Client
	log      *logger.Logger
	endpoint string
	open     func(url string) error
}

// New creates a search provider.
func New(log *logger.Logger, opts ...Option) *Provider {
	p := &Provider{
		http:     &http.Client{Timeout: 8 * time.Second},
		log:      log,
		endpoint: searchEndpoint,
		open:     openBrowser,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CanHandle reports whether the text starts with a search prefix.
// Question words count; bare statements don't, so unmatched commands
// still get the unrecognized response instead of a surprise search.
func (p *Provider) CanHandle(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range queryPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			return true
		}
	}
	return false
}

// Process extracts the query, tries a scraped answer, and falls back
// to opening a browser search.
func (p *Provider) Process(ctx context.Context, text string) (string, error) {
	query := p.extractQuery(text)
	if query == "" {
		return "", fmt.Errorf("no query in %q", text)
	}

	if answer, err := p.shortAnswer(ctx, query); err == nil && answer != "" {
		return answer, nil
	} else if err != nil {
		p.log.Debug("search: scrape failed: %v", err)
	}

	if err := p.open(browserURL + url.QueryEscape(query)); err != nil {
		p.log.Error("search: opening browser: %v", err)
		return "", fmt.Errorf("opening browser search: %w", err)
	}
	return fmt.Sprintf("I've opened a web search for '%s'.", query), nil
}

// extractQuery strips the search prefix, keeping question words like
// "who is" that carry meaning.
func (p *Provider) extractQuery(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range queryPrefixes {
		if !strings.HasPrefix(lower, prefix+" ") {
			continue
		}
		rest := strings.TrimSpace(lower[len(prefix):])
		// Question prefixes stay in the query; command prefixes don't.
		switch prefix {
		case "who is", "who was", "what is", "what are", "what's", "how do i", "how to":
			return lower
		}
		return rest
	}
	return lower
}

// shortAnswer scrapes the first result snippet from the HTML search
// endpoint.
func (p *Provider) shortAnswer(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Nova/1.0")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}

	snippet := firstSnippet(doc)
	if snippet == "" {
		return "", nil
	}
	if len(snippet) > maxSpokenAnswer {
		if cut := strings.LastIndexByte(snippet[:maxSpokenAnswer], '.'); cut > 0 {
			snippet = snippet[:cut+1]
		} else {
			snippet = snippet[:maxSpokenAnswer] + "..."
		}
	}
	return snippet, nil
}

// firstSnippet walks the parsed document for the first element whose
// class marks it as a result snippet.
func firstSnippet(n *html.Node) string {
	if n.Type == html.ElementNode && hasSnippetClass(n) {
		text := strings.TrimSpace(collectText(n))
		if text != "" {
			return text
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := firstSnippet(c); s != "" {
			return s
		}
	}
	return ""
}

func hasSnippetClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(attr.Val, "result__snippet") {
			return true
		}
	}
	return false
}

func collectText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(collectText(c))
	}
	return b.String()
}

func openBrowser(u string) error {
	return browserCommand(u).Start()
}
