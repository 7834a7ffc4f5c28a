package qualify

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/sportcast/internal/analyzer"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/odds"
)

func testEvent(home, draw, away float64) *event.Event {
	return &event.Event{
		ID:       "1",
		Sport:    event.Football,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Probabilities: event.Probabilities{
			Home:    home,
			Draw:    draw,
			Away:    away,
			HasDraw: true,
		},
	}
}

func usableOdds() []odds.Quote {
	return []odds.Quote{{
		Source:    "flashscore",
		Bookmaker: "Nordic Bet",
		HasOdds:   true,
		HomeWin:   1.85,
		Draw:      3.40,
		AwayWin:   4.20,
	}}
}

func TestQualify_AllCriteriaMet(t *testing.T) {
	a := &analyzer.Analysis{
		HeadToHead: analyzer.HeadToHead{
			HasHistory:     true,
			TotalMatches:   5,
			HomeWins:       4,
			HomeWinRate:    0.8,
			MeetsThreshold: true,
		},
		HomeForm: analyzer.Form{HasForm: true, Points: 13},
		AwayForm: analyzer.Form{HasForm: true, Points: 7},
		HomeVenueRecord: analyzer.Form{HasForm: true, Points: 15},
		AwayVenueRecord: analyzer.Form{HasForm: true, Points: 4},
		Odds:            usableOdds(),
	}

	got := Qualify(testEvent(45, 28, 27), a, 40)

	if !got.Qualified {
		t.Fatalf("expected qualification, got reason %q", got.Reason)
	}
	if got.Reason != AcceptReason {
		t.Errorf("Reason = %q, want %q", got.Reason, AcceptReason)
	}
}

func TestQualify_BelowThreshold(t *testing.T) {
	a := &analyzer.Analysis{Odds: usableOdds()}

	got := Qualify(testEvent(38, 32, 30), a, 40)

	if got.Qualified {
		t.Fatal("expected rejection below threshold")
	}
	if !strings.Contains(got.Reason, "38%") || !strings.Contains(got.Reason, "40%") {
		t.Errorf("Reason = %q, want both probabilities cited", got.Reason)
	}
}

func TestQualify_H2HBelowThreshold(t *testing.T) {
	a := &analyzer.Analysis{
		HeadToHead: analyzer.HeadToHead{
			HasHistory:     true,
			TotalMatches:   4,
			HomeWins:       1,
			HomeWinRate:    0.25,
			MeetsThreshold: false,
		},
		Odds: usableOdds(),
	}

	got := Qualify(testEvent(55, 25, 20), a, 40)

	if got.Qualified {
		t.Fatal("expected rejection on H2H")
	}
	if !strings.Contains(got.Reason, "H2H") {
		t.Errorf("Reason = %q, want H2H cited", got.Reason)
	}
}

func TestQualify_MissingDataIsSkipped(t *testing.T) {
	// No H2H history, no form on either side, no venue records. The only
	// remaining criterion is odds, which pass.
	a := &analyzer.Analysis{Odds: usableOdds()}

	got := Qualify(testEvent(62, 20, 18), a, 60)

	if !got.Qualified {
		t.Errorf("expected qualification with absent data skipped, got %q", got.Reason)
	}
}

func TestQualify_FormTieRejects(t *testing.T) {
	a := &analyzer.Analysis{
		HomeForm: analyzer.Form{HasForm: true, Points: 9},
		AwayForm: analyzer.Form{HasForm: true, Points: 9},
		Odds:     usableOdds(),
	}

	got := Qualify(testEvent(55, 25, 20), a, 40)

	if got.Qualified {
		t.Fatal("expected rejection on form tie")
	}
	if !strings.Contains(got.Reason, "form") {
		t.Errorf("Reason = %q, want form cited", got.Reason)
	}
}

func TestQualify_OneSidedFormIsSkipped(t *testing.T) {
	// Away side has worse form on paper but the home side has none at all,
	// so the comparison is skipped rather than failed.
	a := &analyzer.Analysis{
		AwayForm: analyzer.Form{HasForm: true, Points: 18},
		Odds:     usableOdds(),
	}

	got := Qualify(testEvent(55, 25, 20), a, 40)

	if !got.Qualified {
		t.Errorf("expected one-sided form to be skipped, got %q", got.Reason)
	}
}

func TestQualify_VenueTieRejects(t *testing.T) {
	a := &analyzer.Analysis{
		HomeForm:        analyzer.Form{HasForm: true, Points: 12},
		AwayForm:        analyzer.Form{HasForm: true, Points: 6},
		HomeVenueRecord: analyzer.Form{HasForm: true, Points: 7},
		AwayVenueRecord: analyzer.Form{HasForm: true, Points: 7},
		Odds:            usableOdds(),
	}

	got := Qualify(testEvent(55, 25, 20), a, 40)

	if got.Qualified {
		t.Fatal("expected rejection on venue tie")
	}
	if !strings.Contains(got.Reason, "venue") {
		t.Errorf("Reason = %q, want venue cited", got.Reason)
	}
}

func TestQualify_NoUsableOdds(t *testing.T) {
	a := &analyzer.Analysis{
		Odds: []odds.Quote{{MatchID: "1", HasOdds: false}},
	}

	got := Qualify(testEvent(70, 20, 10), a, 40)

	if got.Qualified {
		t.Fatal("expected rejection without usable odds")
	}
	if got.Reason != "no odds available" {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestQualify_ShortCircuitsAtFirstFailure(t *testing.T) {
	// Probability fails first, so the reason must cite probability even
	// though the H2H criterion would also fail.
	a := &analyzer.Analysis{
		HeadToHead: analyzer.HeadToHead{
			HasHistory:     true,
			HomeWinRate:    0.1,
			MeetsThreshold: false,
		},
	}

	got := Qualify(testEvent(30, 40, 30), a, 60)

	if got.Qualified {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(got.Reason, "probability") {
		t.Errorf("Reason = %q, want probability cited first", got.Reason)
	}
}

func TestQualify_Deterministic(t *testing.T) {
	a := &analyzer.Analysis{
		HomeForm: analyzer.Form{HasForm: true, Points: 10},
		AwayForm: analyzer.Form{HasForm: true, Points: 5},
		Odds:     usableOdds(),
	}
	evt := testEvent(51, 29, 20)

	first := Qualify(evt, a, 40)
	for i := 0; i < 3; i++ {
		if got := Qualify(evt, a, 40); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
