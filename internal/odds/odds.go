package odds

import (
	"context"

	"github.com/pfrederiksen/sportcast/internal/logger"
)

// Quote is one source's 1X2 prices for a fixture. HasOdds is authoritative:
// zero prices with HasOdds=false mean the source had nothing, not free bets.
type Quote struct {
	Source    string  `json:"source"`
	Bookmaker string  `json:"bookmaker"`
	MatchID   string  `json:"match_id"`
	HasOdds   bool    `json:"has_odds"`
	HomeWin   float64 `json:"home_win,omitempty"`
	Draw      float64 `json:"draw,omitempty"`
	AwayWin   float64 `json:"away_win,omitempty"`
}

// Usable reports whether the quote carries real prices.
func (q Quote) Usable() bool {
	return q.HasOdds
}

// Fetcher looks up one source's prices for a fixture. A source that finds
// nothing returns a Quote with HasOdds=false and a nil error; errors are for
// lookup failures only.
type Fetcher interface {
	Name() string
	FetchQuote(ctx context.Context, matchID, homeTeam, awayTeam string) (Quote, error)
}

// Aggregator merges quotes from one or more named sources.
type Aggregator struct {
	fetchers []Fetcher
	log      *logger.Logger
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(log *logger.Logger, fetchers ...Fetcher) *Aggregator {
	return &Aggregator{
		fetchers: fetchers,
		log:      log,
	}
}

// Aggregate collects quotes from every source. Sources that error are logged
// and skipped. If no source yields usable prices the result is a single
// HasOdds=false record so downstream skip logic always has a flag to read.
func (a *Aggregator) Aggregate(ctx context.Context, matchID, homeTeam, awayTeam string) []Quote {
	var quotes []Quote

	for _, f := range a.fetchers {
		quote, err := f.FetchQuote(ctx, matchID, homeTeam, awayTeam)
		if err != nil {
			a.log.Warn("odds lookup failed", logger.Fields{
				"source":   f.Name(),
				"match_id": matchID,
			})
			continue
		}
		if quote.Usable() {
			quotes = append(quotes, quote)
		}
	}

	if len(quotes) == 0 {
		return []Quote{{MatchID: matchID, HasOdds: false}}
	}
	return quotes
}

// AnyUsable reports whether at least one quote carries real prices.
func AnyUsable(quotes []Quote) bool {
	for _, q := range quotes {
		if q.Usable() {
			return true
		}
	}
	return false
}
