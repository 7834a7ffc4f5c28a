package analyzer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sportcast/internal/cache"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

// h2hTTL is how long a head-to-head summary stays cached.
const h2hTTL = 24 * time.Hour

var (
	h2hSectionPattern = regexp.MustCompile(`(?i)h2h`)
	matchRowPattern   = regexp.MustCompile(`(?i)match`)
)

// Meeting is one prior meeting between the two teams as listed on the detail
// page. HomeTeam and AwayTeam record each side's role for that meeting, which
// may be swapped relative to the current fixture.
type Meeting struct {
	Date     string `json:"date"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Score    string `json:"score"`
}

// HeadToHead summarizes prior meetings from the current home team's
// perspective.
type HeadToHead struct {
	HasHistory     bool      `json:"has_history"`
	TotalMatches   int       `json:"total_matches"`
	HomeWins       int       `json:"home_wins"`
	Draws          int       `json:"draws"`
	AwayWins       int       `json:"away_wins"`
	HomeWinRate    float64   `json:"home_win_rate"`
	MeetsThreshold bool      `json:"meets_threshold"`
	Meetings       []Meeting `json:"meetings,omitempty"`
}

// DetailFetcher supplies the parsed detail page a head-to-head lookup needs.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string) (*goquery.Document, error)
}

// H2HAnalyzer fetches and summarizes head-to-head history.
type H2HAnalyzer struct {
	source     DetailFetcher
	cache      *cache.Store
	window     int
	minWinRate float64
	log        *logger.Logger
}

// NewH2HAnalyzer creates an H2HAnalyzer. Window bounds the number of prior
// meetings considered; minWinRate sets the MeetsThreshold cut.
func NewH2HAnalyzer(source DetailFetcher, store *cache.Store, window int, minWinRate float64, log *logger.Logger) *H2HAnalyzer {
	return &H2HAnalyzer{
		source:     source,
		cache:      store,
		window:     window,
		minWinRate: minWinRate,
		log:        log,
	}
}

// Analyze returns the head-to-head summary for the current fixture. Without a
// detail URL there is nothing to fetch and the summary reports no history.
// The raw meeting list is cached for 24 hours keyed by the unordered team
// pair, so the reverse fixture later in the season reuses the same entry; the
// summary itself is recomputed on every call because its win counts are bound
// to whichever team is at home now.
func (a *H2HAnalyzer) Analyze(ctx context.Context, homeTeam, awayTeam, detailURL string) HeadToHead {
	key := h2hCacheKey(homeTeam, awayTeam)

	var cached []Meeting
	if a.cache.Load(key, &cached) && len(cached) > 0 {
		return Summarize(cached, homeTeam, a.minWinRate)
	}

	if detailURL == "" {
		a.log.Debug("no detail URL, skipping H2H", logger.Fields{
			"home": homeTeam,
			"away": awayTeam,
		})
		return HeadToHead{}
	}

	doc, err := a.source.FetchDetail(ctx, detailURL)
	if err != nil {
		a.log.Warn("H2H detail fetch failed", logger.Fields{
			"url":  detailURL,
			"home": homeTeam,
		})
		return HeadToHead{}
	}

	meetings := parseMeetings(doc, a.window)
	if len(meetings) == 0 {
		a.log.Debug("no H2H history found", logger.Fields{
			"home": homeTeam,
			"away": awayTeam,
		})
		return HeadToHead{}
	}

	if err := a.cache.Save(key, meetings, h2hTTL); err != nil {
		a.log.Warn("failed to cache H2H meetings", logger.Fields{"key": key})
	}

	return Summarize(meetings, homeTeam, a.minWinRate)
}

// Summarize classifies each meeting from the current home team's perspective
// and aggregates win rate. Scores parse as "int-int" (spaces tolerated);
// equal scores are draws; side matching is a case-insensitive substring check
// against the recorded home-team name for that meeting. Unparseable scores
// count toward the total but score nothing.
func Summarize(meetings []Meeting, homeTeam string, minWinRate float64) HeadToHead {
	h := HeadToHead{
		HasHistory:   true,
		TotalMatches: len(meetings),
		Meetings:     meetings,
	}

	for _, m := range meetings {
		switch classify(m, homeTeam) {
		case Win:
			h.HomeWins++
		case Draw:
			h.Draws++
		case Loss:
			h.AwayWins++
		}
	}

	if h.TotalMatches > 0 {
		h.HomeWinRate = math.Round(float64(h.HomeWins)/float64(h.TotalMatches)*1000) / 1000
	}
	h.MeetsThreshold = h.HomeWinRate >= minWinRate

	return h
}

// classify determines one meeting's result from the current home team's
// perspective.
func classify(m Meeting, homeTeam string) Result {
	parts := strings.Split(strings.ReplaceAll(m.Score, " ", ""), "-")
	if len(parts) != 2 {
		return Unknown
	}

	homeGoals, err1 := strconv.Atoi(parts[0])
	awayGoals, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Unknown
	}

	wasHome := strings.Contains(strings.ToLower(m.HomeTeam), strings.ToLower(homeTeam))

	switch {
	case homeGoals > awayGoals:
		if wasHome {
			return Win
		}
		return Loss
	case homeGoals < awayGoals:
		if wasHome {
			return Loss
		}
		return Win
	default:
		return Draw
	}
}

// parseMeetings pulls prior meetings out of the detail page's H2H section.
func parseMeetings(doc *goquery.Document, window int) []Meeting {
	var section *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		class, _ := div.Attr("class")
		if class != "" && h2hSectionPattern.MatchString(class) {
			section = div
			return false
		}
		return true
	})
	if section == nil {
		return nil
	}

	var meetings []Meeting
	section.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		class, _ := row.Attr("class")
		if class == "" || !matchRowPattern.MatchString(class) {
			return true
		}
		if m, ok := parseMeetingRow(row); ok {
			meetings = append(meetings, m)
		}
		return len(meetings) < window
	})

	return meetings
}

func parseMeetingRow(row *goquery.Selection) (Meeting, bool) {
	date := strings.TrimSpace(row.Find("span.date").First().Text())
	score := strings.TrimSpace(row.Find("span.score").First().Text())

	teams := row.Find("a.team")
	if date == "" || score == "" || teams.Length() < 2 {
		return Meeting{}, false
	}

	return Meeting{
		Date:     date,
		HomeTeam: strings.TrimSpace(teams.Eq(0).Text()),
		AwayTeam: strings.TrimSpace(teams.Eq(1).Text()),
		Score:    score,
	}, true
}

// h2hCacheKey builds the unordered-pair cache key: both orderings of the same
// two teams hit the same entry.
func h2hCacheKey(a, b string) string {
	pair := []string{strings.ToLower(a), strings.ToLower(b)}
	sort.Strings(pair)
	return fmt.Sprintf("h2h_%s_%s", pair[0], pair[1])
}
