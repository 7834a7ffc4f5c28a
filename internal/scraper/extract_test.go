package scraper

import (
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/event"
	"github.com/pfrederiksen/sportcast/internal/logger"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(config.Default(), logger.New(logger.LevelError, io.Discard))
}

func selection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + html + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Find("body").Children().First()
}

func TestFixture_FullRow(t *testing.T) {
	sel := selection(t, `
<div class="rcnt" data-tid="98765">
  <div><span class="date_bah">2026-08-31 19:00</span></div>
  <div><a href="/teams/arsenal">Arsenal</a> v <a href="/teams/chelsea">Chelsea</a></div>
  <div title="Premier League">
    <div class="fprc"><span>45</span><span>28</span><span>27</span></div>
  </div>
  <div><a href="/matches/arsenal-chelsea-98765">details</a></div>
</div>`)

	evt, ok := testExtractor(t).Fixture(sel, event.Football)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}

	if evt.ID != "98765" {
		t.Errorf("ID = %q, want 98765", evt.ID)
	}
	if evt.HomeTeam != "Arsenal" || evt.AwayTeam != "Chelsea" {
		t.Errorf("teams = %q vs %q", evt.HomeTeam, evt.AwayTeam)
	}
	if evt.Probabilities.Home != 45 || evt.Probabilities.Draw != 28 || evt.Probabilities.Away != 27 {
		t.Errorf("probabilities = %+v", evt.Probabilities)
	}
	if !evt.Probabilities.HasDraw {
		t.Error("football probabilities should carry a draw")
	}
	if evt.League != "Premier League" {
		t.Errorf("League = %q", evt.League)
	}
	if evt.MatchTime != "2026-08-31 19:00" {
		t.Errorf("MatchTime = %q", evt.MatchTime)
	}
	if evt.DetailURL != "https://www.forebet.com/matches/arsenal-chelsea-98765" {
		t.Errorf("DetailURL = %q", evt.DetailURL)
	}
}

func TestTeams_StrategyChain(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantHome string
		wantAway string
		wantOK   bool
	}{
		{
			name: "team profile anchors win over spans",
			html: `<div><span>noise</span>
				<a href="/team/ajax">Ajax</a><a href="/team/psv">PSV</a></div>`,
			wantHome: "Ajax",
			wantAway: "PSV",
			wantOK:   true,
		},
		{
			name: "class convention",
			html: `<div><span class="homeTeam">Lyon</span>
				<span class="awayTeam">Lille</span></div>`,
			wantHome: "Lyon",
			wantAway: "Lille",
			wantOK:   true,
		},
		{
			name:     "plain spans",
			html:     `<div><span>Porto</span><span>Benfica</span></div>`,
			wantHome: "Porto",
			wantAway: "Benfica",
			wantOK:   true,
		},
		{
			name:     "bare table cells",
			html:     `<table><tr><td>Sparta</td><td>Slavia</td></tr></table>`,
			wantHome: "Sparta",
			wantAway: "Slavia",
			wantOK:   true,
		},
		{
			name:     "cell wrapping a span counts once",
			html:     `<table><tr><td><span>Genk</span></td><td><span>Gent</span></td></tr></table>`,
			wantHome: "Genk",
			wantAway: "Gent",
			wantOK:   true,
		},
		{
			name:     "image alt text",
			html:     `<div><img alt="Celtic" src="c.png"><img alt="Rangers" src="r.png"></div>`,
			wantHome: "Celtic",
			wantAway: "Rangers",
			wantOK:   true,
		},
		{
			name:   "single name only",
			html:   `<div><span>Lonely FC</span></div>`,
			wantOK: false,
		},
		{
			name:   "nothing at all",
			html:   `<div></div>`,
			wantOK: false,
		},
	}

	x := testExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away, ok := x.teams(selection(t, tt.html))

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (home != tt.wantHome || away != tt.wantAway) {
				t.Errorf("teams = %q/%q, want %q/%q", home, away, tt.wantHome, tt.wantAway)
			}
		})
	}
}

func TestProbabilities_ForecastContainer(t *testing.T) {
	sel := selection(t, `<div><div class="fprc">
		<span>50</span><span>30</span><span>20</span></div></div>`)

	probs, ok := testExtractor(t).probabilities(sel, event.Football)
	if !ok {
		t.Fatal("expected probabilities")
	}
	if probs.Home != 50 || probs.Draw != 30 || probs.Away != 20 {
		t.Errorf("probabilities = %+v", probs)
	}
}

func TestProbabilities_TwoOutcomeSport(t *testing.T) {
	sel := selection(t, `<div><div class="fprc">
		<span>62</span><span>38</span></div></div>`)

	probs, ok := testExtractor(t).probabilities(sel, event.Basketball)
	if !ok {
		t.Fatal("expected probabilities")
	}
	if probs.Home != 62 || probs.Away != 38 {
		t.Errorf("probabilities = %+v", probs)
	}
	if probs.HasDraw || probs.Draw != 0 {
		t.Errorf("basketball must not carry a draw: %+v", probs)
	}
}

func TestProbabilities_FallbackScan(t *testing.T) {
	// No forecast container. The scan must skip past the leading
	// out-of-band value and accept the 40/35/25 run.
	sel := selection(t, `<div>
		<span>3</span>
		<span>40</span><span>35</span><span>25</span>
	</div>`)

	probs, ok := testExtractor(t).probabilities(sel, event.Football)
	if !ok {
		t.Fatal("expected fallback scan to find a run")
	}
	if probs.Home != 40 || probs.Draw != 35 || probs.Away != 25 {
		t.Errorf("probabilities = %+v", probs)
	}
}

func TestProbabilities_NoValidRun(t *testing.T) {
	sel := selection(t, `<div>
		<span>3</span><span>12</span><span>9</span>
	</div>`)

	if _, ok := testExtractor(t).probabilities(sel, event.Football); ok {
		t.Error("expected no probabilities when no run sums into the band")
	}
}

func TestFixture_MissingProbabilitiesDrops(t *testing.T) {
	sel := selection(t, `<div data-tid="5">
		<span>Home FC</span><span>Away FC</span>
	</div>`)

	if _, ok := testExtractor(t).Fixture(sel, event.Football); ok {
		t.Error("expected fixture without probabilities to be dropped")
	}
}

func TestFixture_OptionalFieldsDegrade(t *testing.T) {
	sel := selection(t, `<div class="rcnt">
		<span>Genk</span><span>Gent</span>
		<div class="fprc"><span>48</span><span>29</span><span>23</span></div>
	</div>`)

	evt, ok := testExtractor(t).Fixture(sel, event.Football)
	if !ok {
		t.Fatal("expected extraction to succeed without optional fields")
	}
	if evt.League != event.UnknownLeague {
		t.Errorf("League = %q, want sentinel", evt.League)
	}
	if evt.MatchTime != "" {
		t.Errorf("MatchTime = %q, want empty", evt.MatchTime)
	}
	if evt.DetailURL != "" {
		t.Errorf("DetailURL = %q, want empty", evt.DetailURL)
	}
}

func TestDetailURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "relative resolves against base",
			html: `<div><a href="/matches/a-b-1">m</a></div>`,
			want: "https://www.forebet.com/matches/a-b-1",
		},
		{
			name: "absolute kept as is",
			html: `<div><a href="https://other.example/matches/a-b-1">m</a></div>`,
			want: "https://other.example/matches/a-b-1",
		},
		{
			name: "no detail link",
			html: `<div><a href="/standings/x">s</a></div>`,
			want: "",
		},
	}

	x := testExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := x.detailURL(selection(t, tt.html)); got != tt.want {
				t.Errorf("detailURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixtureID_FallsBackToDetailURL(t *testing.T) {
	sel := selection(t, `<div><span>x</span></div>`)
	x := testExtractor(t)

	if got := x.fixtureID(sel, "https://www.forebet.com/matches/ajax-psv-4711"); got != "4711" {
		t.Errorf("fixtureID = %q, want 4711", got)
	}
	if got := x.fixtureID(sel, ""); got != "" {
		t.Errorf("fixtureID = %q, want empty", got)
	}
}
