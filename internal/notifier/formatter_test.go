package notifier

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/odds"
	"github.com/pfrederiksen/sportcast/internal/qualify"
)

func qualifiedFixture(sport event.Sport, home, away, matchTime string, homeProb float64) qualify.QualifiedEvent {
	return qualify.QualifiedEvent{
		Event: &event.Event{
			ID:        home + "-" + away,
			Sport:     sport,
			HomeTeam:  home,
			AwayTeam:  away,
			League:    "Test League",
			MatchTime: matchTime,
			Probabilities: event.Probabilities{
				Home:    homeProb,
				Draw:    (100 - homeProb) / 2,
				Away:    (100 - homeProb) / 2,
				HasDraw: true,
			},
		},
		Analysis: &analyzer.Analysis{
			Odds: []odds.Quote{{
				Bookmaker: "Nordic Bet",
				HasOdds:   true,
				HomeWin:   1.85,
				Draw:      3.40,
				AwayWin:   4.20,
			}},
		},
		Reason: qualify.AcceptReason,
	}
}

func TestFormatSubject(t *testing.T) {
	if got := formatSubject(3); got != "sportcast - 3 qualified events" {
		t.Errorf("subject = %q", got)
	}
}

func TestFormatHTML(t *testing.T) {
	qualified := []qualify.QualifiedEvent{
		qualifiedFixture(event.Football, "Arsenal", "Chelsea", "2026-08-31 19:00", 62),
		qualifiedFixture(event.Hockey, "HIFK", "Tappara", "2026-08-31 17:30", 70),
		qualifiedFixture(event.Football, "Leeds", "Derby", "2026-08-31 15:00", 65),
	}

	html := formatHTML(qualified)

	if !strings.Contains(html, "3 qualified events") {
		t.Error("missing event count")
	}
	for _, want := range []string{"Football", "Hockey", "Arsenal vs Chelsea", "HIFK vs Tappara"} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in report", want)
		}
	}

	// Within football, the earlier kickoff renders first.
	if strings.Index(html, "Leeds vs Derby") > strings.Index(html, "Arsenal vs Chelsea") {
		t.Error("events not sorted by match time within sport")
	}
	// Sport groups keep discovery order: football before hockey.
	if strings.Index(html, "<h3>Football</h3>") > strings.Index(html, "<h3>Hockey</h3>") {
		t.Error("sport groups not in discovery order")
	}

	if !strings.Contains(html, "1.85 / 3.40 / 4.20 (Nordic Bet)") {
		t.Error("missing odds cell")
	}
	if !strings.Contains(html, "62%") {
		t.Error("missing probability cell")
	}
}

func TestFormatHTML_UnknownTimeSortsLast(t *testing.T) {
	qualified := []qualify.QualifiedEvent{
		qualifiedFixture(event.Football, "NoTime", "FC", "", 61),
		qualifiedFixture(event.Football, "Early", "FC", "2026-08-31 12:00", 61),
	}

	html := formatHTML(qualified)

	if strings.Index(html, "Early vs FC") > strings.Index(html, "NoTime vs FC") {
		t.Error("event without a match time should render last")
	}
	if !strings.Contains(html, "<td>-</td>") {
		t.Error("missing placeholder for unknown match time")
	}
}

func TestFormatHTML_TwoOutcomeOdds(t *testing.T) {
	q := qualifiedFixture(event.Basketball, "Lakers", "Celtics", "", 64)
	q.Event.Probabilities.HasDraw = false
	q.Event.Probabilities.Draw = 0
	q.Analysis.Odds[0].Draw = 0

	html := formatHTML([]qualify.QualifiedEvent{q})

	if !strings.Contains(html, "1.85 / 4.20 (Nordic Bet)") {
		t.Error("two-outcome odds cell should omit the draw price")
	}
}

func TestSportHeading(t *testing.T) {
	tests := []struct {
		sport event.Sport
		want  string
	}{
		{event.Football, "Football"},
		{event.AmericanFootball, "American football"},
	}

	for _, tt := range tests {
		if got := sportHeading(tt.sport); got != tt.want {
			t.Errorf("sportHeading(%q) = %q, want %q", tt.sport, got, tt.want)
		}
	}
}

func TestFormatEmptyHTML(t *testing.T) {
	html := formatEmptyHTML()
	if !strings.Contains(html, "No qualified events") {
		t.Error("missing empty-report heading")
	}
}
