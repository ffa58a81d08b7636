package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"dataanalyst/internal/config"
	"dataanalyst/internal/domain"
)

// TableClass marks a qualifying table.
const TableClass = "wikitable"

// TableScraper implements port.TableFetcher over plain HTTP.
type TableScraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewTableScraper creates a scraper from config. A zero request rate
// disables throttling.
func NewTableScraper(cfg *config.ScraperConfig) *TableScraper {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &TableScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// FetchTable downloads url and extracts its first qualifying table.
func (s *TableScraper) FetchTable(ctx context.Context, url string) (*domain.Table, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for scrape slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return ExtractTable(doc), nil
}

// ExtractTable finds the first table carrying TableClass under root. The
// first row becomes the header; every later row with at least one cell is a
// data row. Returns nil when no qualifying table exists.
func ExtractTable(root *html.Node) *domain.Table {
	tbl := findFirst(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, TableClass)
	})
	if tbl == nil {
		return nil
	}

	rows := findAll(tbl, func(n *html.Node) bool { return n.DataAtom == atom.Tr })
	out := &domain.Table{}
	if len(rows) == 0 {
		return out
	}

	out.Header = cellTexts(rows[0])
	for _, tr := range rows[1:] {
		if cols := cellTexts(tr); len(cols) > 0 {
			out.Rows = append(out.Rows, cols)
		}
	}
	return out
}

func cellTexts(tr *html.Node) []string {
	cells := findAll(tr, func(n *html.Node) bool {
		return n.DataAtom == atom.Th || n.DataAtom == atom.Td
	})
	texts := make([]string, 0, len(cells))
	for _, c := range cells {
		texts = append(texts, strings.TrimSpace(textContent(c)))
	}
	return texts
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// findFirst returns the first descendant of root, in document order, that matches.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every matching descendant of root in document order,
// including matches nested inside other matches.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// textContent concatenates the text beneath n, skipping script and style bodies.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
