package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTTPSource fetches pages with a plain HTTP client. Suitable for detail
// pages and for listings that do not require JavaScript rendering.
type HTTPSource struct {
	client    *http.Client
	userAgent string
}

// NewHTTPSource creates an HTTPSource with the given request timeout.
func NewHTTPSource(userAgent string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// FetchListing fetches and parses a listing page.
func (s *HTTPSource) FetchListing(ctx context.Context, url string) (*goquery.Document, error) {
	return s.fetch(ctx, url)
}

// FetchDetail fetches and parses a fixture detail page.
func (s *HTTPSource) FetchDetail(ctx context.Context, url string) (*goquery.Document, error) {
	return s.fetch(ctx, url)
}

func (s *HTTPSource) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		// Network and timeout failures are worth retrying.
		return nil, Transient(fmt.Errorf("fetching page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, Transient(err)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
