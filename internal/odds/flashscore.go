package odds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/sportcast/internal/cache"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

const (
	// nordicBetID is Flashscore's bookmaker id for Nordic Bet.
	nordicBetID = 37

	flashscoreSearchURL = "https://www.flashscore.com/search/"
	flashscoreFeedURL   = "https://d.flashscore.com/x/feed"

	// quoteTTL is how long one fixture's quote stays cached per source.
	quoteTTL = 30 * time.Minute
)

// flashscoreIDPattern matches match ids embedded in search results as
// element ids of the form g_1_<id>.
var flashscoreIDPattern = regexp.MustCompile(`g_1_([A-Za-z0-9]+)`)

// FlashscoreFetcher pulls Nordic Bet 1X2 prices from Flashscore's feed API.
// The feed is a ¬-separated token stream; prices follow an OE marker after
// the bookmaker id token.
type FlashscoreFetcher struct {
	client    *http.Client
	cache     *cache.Store
	userAgent string
	searchURL string
	feedURL   string
	log       *logger.Logger
}

// NewFlashscoreFetcher creates a FlashscoreFetcher.
func NewFlashscoreFetcher(store *cache.Store, userAgent string, timeout time.Duration, log *logger.Logger) *FlashscoreFetcher {
	return &FlashscoreFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		cache:     store,
		userAgent: userAgent,
		searchURL: flashscoreSearchURL,
		feedURL:   flashscoreFeedURL,
		log:       log,
	}
}

// Name identifies this source in aggregated quotes and logs.
func (f *FlashscoreFetcher) Name() string {
	return "flashscore_nordicbet"
}

// FetchQuote looks up Nordic Bet prices for a fixture, consulting the cache
// first. A fixture Flashscore doesn't know, or one without Nordic Bet prices,
// yields a HasOdds=false quote and no error.
func (f *FlashscoreFetcher) FetchQuote(ctx context.Context, matchID, homeTeam, awayTeam string) (Quote, error) {
	key := f.quoteCacheKey(matchID, homeTeam, awayTeam)

	var cached Quote
	if f.cache.Load(key, &cached) {
		return cached, nil
	}

	flashscoreID, err := f.searchMatch(ctx, homeTeam, awayTeam)
	if err != nil {
		return Quote{}, fmt.Errorf("searching for match: %w", err)
	}
	if flashscoreID == "" {
		f.log.Debug("match not found on flashscore", logger.Fields{
			"home": homeTeam,
			"away": awayTeam,
		})
		return f.emptyQuote(matchID), nil
	}

	quote, err := f.fetchMatchOdds(ctx, flashscoreID)
	if err != nil {
		return Quote{}, fmt.Errorf("fetching odds feed: %w", err)
	}
	if !quote.HasOdds {
		return f.emptyQuote(matchID), nil
	}

	quote.MatchID = matchID
	if err := f.cache.Save(key, quote, quoteTTL); err != nil {
		f.log.Warn("failed to cache quote", logger.Fields{"key": key})
	}

	f.log.Debug("odds fetched", logger.Fields{
		"match_id": matchID,
		"home_win": quote.HomeWin,
		"away_win": quote.AwayWin,
	})
	return quote, nil
}

// quoteCacheKey keys a quote by fixture id. Fixtures whose extractor never
// found an id fall back to the team pair so they don't all collide on one
// entry.
func (f *FlashscoreFetcher) quoteCacheKey(matchID, homeTeam, awayTeam string) string {
	if matchID == "" {
		matchID = strings.ToLower(homeTeam + "_" + awayTeam)
	}
	return fmt.Sprintf("odds_%s_%s", matchID, f.Name())
}

// searchMatch resolves the fixture's Flashscore id via the search page.
func (f *FlashscoreFetcher) searchMatch(ctx context.Context, homeTeam, awayTeam string) (string, error) {
	query := url.QueryEscape(homeTeam + " " + awayTeam)
	body, err := f.get(ctx, f.searchURL+"?q="+query)
	if err != nil {
		return "", err
	}

	if m := flashscoreIDPattern.FindStringSubmatch(body); m != nil {
		return m[1], nil
	}
	return "", nil
}

// fetchMatchOdds reads the odds feed for a Flashscore match id.
func (f *FlashscoreFetcher) fetchMatchOdds(ctx context.Context, flashscoreID string) (Quote, error) {
	feedPath := fmt.Sprintf("%s/df_od_1_%s_1_eu_1", f.feedURL, flashscoreID)
	body, err := f.get(ctx, feedPath)
	if err != nil {
		return Quote{}, err
	}

	home, draw, away, ok := parseFeedOdds(body, nordicBetID)
	if !ok {
		return Quote{}, nil
	}

	return Quote{
		Source:    f.Name(),
		Bookmaker: "Nordic Bet",
		HasOdds:   true,
		HomeWin:   home,
		Draw:      draw,
		AwayWin:   away,
	}, nil
}

// parseFeedOdds scans the ¬-separated feed for the bookmaker's id token and
// reads the three prices following the next OE marker.
func parseFeedOdds(feed string, bookmakerID int) (home, draw, away float64, ok bool) {
	tokens := strings.Split(feed, "¬")
	idToken := strconv.Itoa(bookmakerID)

	for i, token := range tokens {
		if token != idToken {
			continue
		}

		limit := i + 20
		if limit > len(tokens) {
			limit = len(tokens)
		}
		for j := i; j < limit; j++ {
			if tokens[j] != "OE" && !strings.HasPrefix(tokens[j], "OE") {
				continue
			}
			if j+1 >= len(tokens) {
				continue
			}
			h, err := strconv.ParseFloat(tokens[j+1], 64)
			if err != nil {
				continue
			}
			var d, a float64
			if j+2 < len(tokens) {
				d, _ = strconv.ParseFloat(tokens[j+2], 64)
			}
			if j+3 < len(tokens) {
				a, _ = strconv.ParseFloat(tokens[j+3], 64)
			}
			return h, d, a, true
		}
	}
	return 0, 0, 0, false
}

func (f *FlashscoreFetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", "https://www.flashscore.com/")
	// Feed endpoints require the site's API signature header.
	req.Header.Set("X-Fsign", "SW9D1eZo")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

func (f *FlashscoreFetcher) emptyQuote(matchID string) Quote {
	return Quote{
		Source:    f.Name(),
		Bookmaker: "Nordic Bet",
		MatchID:   matchID,
		HasOdds:   false,
	}
}
