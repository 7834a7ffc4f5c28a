package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

// fixtureRowSelector is the CSS selector waited on before parsing a rendered
// listing page, covering the schema table, fixture rows, and data-token rows.
const fixtureRowSelector = ".schema, .rcnt, tr[data-tid]"

// renderGrace gives client-side scripts a moment after rows first appear.
const renderGrace = 2 * time.Second

// browserMu serializes Chrome usage so only one instance runs at a time.
var browserMu sync.Mutex

// BrowserSource renders pages with headless Chrome before parsing them.
// Listing pages on the source site populate fixture rows with JavaScript,
// so a plain HTTP fetch can come back empty.
type BrowserSource struct {
	cfg       config.BrowserConfig
	userAgent string
	log       *logger.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	initOnce    sync.Once
}

// NewBrowserSource creates a BrowserSource. The browser itself starts lazily
// on first fetch and is shut down by Close.
func NewBrowserSource(cfg config.BrowserConfig, userAgent string, log *logger.Logger) *BrowserSource {
	return &BrowserSource{
		cfg:       cfg,
		userAgent: userAgent,
		log:       log,
	}
}

func (s *BrowserSource) init() {
	s.initOnce.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", s.cfg.Headless),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.WindowSize(1920, 1080),
			chromedp.UserAgent(s.userAgent),
		)
		s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		s.log.Debug("browser allocator initialized", nil)
	})
}

// Close shuts the browser allocator down. Safe to call when no fetch ever ran.
func (s *BrowserSource) Close() {
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// FetchListing navigates to url, waits for fixture rows to render within the
// configured bound, and returns the parsed document. A render timeout is not
// fatal: whatever HTML is present gets parsed, which degrades to fewer (or
// zero) fixtures found.
func (s *BrowserSource) FetchListing(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.init()

	browserMu.Lock()
	defer browserMu.Unlock()

	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.cfg.PageLoadTimeout.Std())
	defer cancelTimeout()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return nil, Transient(fmt.Errorf("navigating to %s: %w", url, err))
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, s.cfg.RenderWait.Std())
	err := chromedp.Run(waitCtx, chromedp.WaitReady(fixtureRowSelector, chromedp.ByQuery))
	cancelWait()
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, Transient(fmt.Errorf("waiting for fixture rows: %w", err))
		}
		s.log.Warn("timed out waiting for fixture rows", logger.Fields{"url": url})
	} else {
		// Rows are present; give client-side scripts a moment to fill them.
		_ = chromedp.Run(tabCtx, chromedp.Sleep(renderGrace))
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, Transient(fmt.Errorf("reading rendered page: %w", err))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}
	return doc, nil
}

// FetchDetail fetches a detail page in a fresh tab. Detail pages are mostly
// static, so no render wait beyond document ready is applied.
func (s *BrowserSource) FetchDetail(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.init()

	browserMu.Lock()
	defer browserMu.Unlock()

	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.cfg.PageLoadTimeout.Std())
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, Transient(fmt.Errorf("fetching detail page %s: %w", url, err))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing detail HTML: %w", err)
	}
	return doc, nil
}
