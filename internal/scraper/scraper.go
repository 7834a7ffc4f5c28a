package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/sportcast/internal/cache"
	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

// eventsTTL is how long a discovered event list stays cached. The daily cache
// key avoids re-fetch churn within a day, while this short TTL lets intraday
// reruns refresh near-kickoff data.
const eventsTTL = 30 * time.Minute

// containerSelectors are tried in order of decreasing specificity; the first
// selector yielding any containers is used exclusively, never merged with
// later ones.
var containerSelectors = []string{
	"tr[data-tid]",
	"div.rcnt",
	"table tr",
	`[class*="match"]`,
}

// Scraper discovers upcoming events for one sport at a time, caching each
// day's listing and retrying transient fetch failures with bounded
// exponential backoff.
type Scraper struct {
	source    Source
	cache     *cache.Store
	extractor *Extractor
	cfg       *config.Config
	log       *logger.Logger

	// sleep is swapped out in tests; defaults to time.Sleep.
	sleep func(time.Duration)
}

// New creates a Scraper.
func New(source Source, store *cache.Store, cfg *config.Config, log *logger.Logger) *Scraper {
	return &Scraper{
		source:    source,
		cache:     store,
		extractor: NewExtractor(cfg, log),
		cfg:       cfg,
		log:       log,
		sleep:     time.Sleep,
	}
}

// FetchEvents returns the upcoming events for one sport. A cache hit under
// the sport's daily key returns the cached list unchanged, with no network
// access at all for that sport that day. On a miss the listing is fetched
// (with retry), parsed, cached for 30 minutes, and followed by the
// configured inter-request delay.
func (s *Scraper) FetchEvents(ctx context.Context, sport event.Sport) ([]*event.Event, error) {
	key := eventsCacheKey(sport, time.Now())

	var cached []*event.Event
	if s.cache.Load(key, &cached) {
		s.log.Info("events found in cache", logger.Fields{
			"sport": string(sport),
			"count": len(cached),
		})
		return cached, nil
	}

	url, err := s.cfg.SportURL(sport)
	if err != nil {
		return nil, err
	}

	doc, err := s.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s listing: %w", sport, err)
	}

	events := s.parseListing(doc, sport)

	if len(events) > 0 {
		if err := s.cache.Save(key, events, eventsTTL); err != nil {
			s.log.Warn("failed to cache events", logger.Fields{"sport": string(sport)})
		}
		s.log.Info("events discovered", logger.Fields{
			"sport": string(sport),
			"count": len(events),
		})
	} else {
		s.log.Warn("no events found", logger.Fields{"sport": string(sport)})
	}

	// Rate limiting between fetches against the source site.
	s.sleep(s.cfg.RequestDelay.Std())

	return events, nil
}

// fetchWithRetry wraps the listing fetch in the configured retry policy.
// Only transient failures are retried; permanent ones abort immediately.
func (s *Scraper) fetchWithRetry(ctx context.Context, url string) (*goquery.Document, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.Retry.BaseDelay.Std()
	policy.MaxInterval = s.cfg.Retry.MaxDelay.Std()
	policy.MaxElapsedTime = 0

	attempts := uint64(s.cfg.Retry.MaxAttempts)
	var wrapped backoff.BackOff = backoff.WithMaxRetries(policy, attempts-1)
	wrapped = backoff.WithContext(wrapped, ctx)

	attempt := 0
	return backoff.RetryWithData(func() (*goquery.Document, error) {
		attempt++
		doc, err := s.source.FetchListing(ctx, url)
		if err != nil {
			if IsTransient(err) {
				s.log.Warn("listing fetch failed, will retry", logger.Fields{
					"url":     url,
					"attempt": attempt,
				})
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return doc, nil
	}, wrapped)
}

// parseListing locates fixture containers and extracts an event from each.
// Containers come from the first selector in the chain that matches anything.
func (s *Scraper) parseListing(doc *goquery.Document, sport event.Sport) []*event.Event {
	var rows *goquery.Selection
	for _, selector := range containerSelectors {
		found := doc.Find(selector)
		if found.Length() > 0 {
			s.log.Debug("fixture containers located", logger.Fields{
				"selector": selector,
				"count":    found.Length(),
			})
			rows = found
			break
		}
	}
	if rows == nil {
		return nil
	}

	events := make([]*event.Event, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		if evt, ok := s.extractor.Fixture(row, sport); ok {
			events = append(events, evt)
		}
	})
	return events
}

func eventsCacheKey(sport event.Sport, day time.Time) string {
	return fmt.Sprintf("events_%s_%s", sport, day.Format("2006-01-02"))
}
