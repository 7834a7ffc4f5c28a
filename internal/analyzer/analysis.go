package analyzer

import "github.com/pfrederiksen/sportcast/internal/odds"

// Analysis collects every enrichment signal assembled for one event. Each
// field is filled lazily by the pipeline; a signal that could not be obtained
// is present with its Has* flag unset rather than missing.
type Analysis struct {
	HeadToHead      HeadToHead   `json:"head_to_head"`
	HomeForm        Form         `json:"home_form"`
	AwayForm        Form         `json:"away_form"`
	HomeVenueRecord Form         `json:"home_venue_record"`
	AwayVenueRecord Form         `json:"away_venue_record"`
	Odds            []odds.Quote `json:"odds"`
}
