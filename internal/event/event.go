package event

import "time"

// Sport identifies one of the prediction site's sport categories.
type Sport string

const (
	Football         Sport = "football"
	Basketball       Sport = "basketball"
	Volleyball       Sport = "volleyball"
	Hockey           Sport = "hockey"
	Handball         Sport = "handball"
	AmericanFootball Sport = "american-football"
	Baseball         Sport = "baseball"
	Rugby            Sport = "rugby"
	Cricket          Sport = "cricket"
)

// AllSports lists every sport category the site publishes predictions for.
var AllSports = []Sport{
	Football,
	Basketball,
	Volleyball,
	Hockey,
	Handball,
	AmericanFootball,
	Baseball,
	Rugby,
	Cricket,
}

// HasDraw reports whether the sport's predictions carry a draw outcome.
// Basketball, volleyball, American football and baseball are two-outcome
// sports on the site: their forecast shows home/away percentages only.
func (s Sport) HasDraw() bool {
	switch s {
	case Basketball, Volleyball, AmericanFootball, Baseball:
		return false
	}
	return true
}

// Valid reports whether s is one of the supported sport categories.
func (s Sport) Valid() bool {
	for _, known := range AllSports {
		if s == known {
			return true
		}
	}
	return false
}

// Outcome names the side a prediction favors.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Probabilities holds the site's forecast percentages for a fixture.
// Each value lies in [0,100]. HasDraw mirrors the sport's outcome count:
// when false, Draw is always zero and never participates in Max/Predicted.
type Probabilities struct {
	Home    float64 `json:"home"`
	Draw    float64 `json:"draw,omitempty"`
	Away    float64 `json:"away"`
	HasDraw bool    `json:"has_draw"`
}

// Max returns the highest probability among the present outcomes.
func (p Probabilities) Max() float64 {
	max := p.Home
	if p.HasDraw && p.Draw > max {
		max = p.Draw
	}
	if p.Away > max {
		max = p.Away
	}
	return max
}

// Predicted returns the outcome attaining Max. Ties break by declaration
// order: home, then draw, then away.
func (p Probabilities) Predicted() Outcome {
	max := p.Max()
	if p.Home == max {
		return OutcomeHome
	}
	if p.HasDraw && p.Draw == max {
		return OutcomeDraw
	}
	return OutcomeAway
}

// UnknownLeague is the sentinel used when the listing carries no league label.
const UnknownLeague = "Unknown League"

// Event represents one upcoming fixture scraped from the site's listing page.
// Events are immutable after creation; they are not persisted beyond the run
// except inside the TTL cache under a per-sport, per-day key.
type Event struct {
	ID            string        `json:"id"`
	Sport         Sport         `json:"sport"`
	HomeTeam      string        `json:"home_team"`
	AwayTeam      string        `json:"away_team"`
	Probabilities Probabilities `json:"probabilities"`
	League        string        `json:"league"`
	// MatchTime is the timestamp as presented by the source. It is never
	// parsed into a calendar type; it is used for sort ordering and display
	// only, with the empty string sorting last.
	MatchTime string `json:"match_time,omitempty"`
	// DetailURL is the absolute URL of the fixture's detail page. Empty when
	// the listing row carried no detail link, which suppresses H2H lookup.
	DetailURL string    `json:"detail_url,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// SortBefore orders events for display: known match times ascending by their
// literal text, events without a time last.
func (e *Event) SortBefore(other *Event) bool {
	if e.MatchTime == "" {
		return false
	}
	if other.MatchTime == "" {
		return true
	}
	return e.MatchTime < other.MatchTime
}
